package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DeviceNameKey is the reserved custom data key the platform reads the
// device name from. The name predates non-iOS clients.
const DeviceNameKey = "ios_device_name"

// Signer identifies the end user recording acceptance.
type Signer struct {
	ID         string     `json:"signer_id" yaml:"signer_id"`
	CustomData CustomData `json:"custom_data" yaml:"custom_data"`
}

// CustomData carries reserved signer attributes plus arbitrary extensions.
// A non-empty reserved attribute takes precedence over an extension with
// the same name.
type CustomData struct {
	FirstName   string            `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	CompanyName string            `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	DeviceName  string            `json:"ios_device_name,omitempty" yaml:"ios_device_name,omitempty"`
	Extra       map[string]string `json:"-" yaml:"extra,omitempty"`
}

// NewSigner returns a signer whose custom data names the current host.
func NewSigner(id string) Signer {
	return Signer{ID: id, CustomData: NewCustomData()}
}

// NewCustomData returns custom data with the device name populated.
func NewCustomData() CustomData {
	name, _ := os.Hostname()
	return CustomData{DeviceName: name}
}

// Validate checks that the signer can be reported.
func (s Signer) Validate() error {
	if s.ID == "" {
		return errors.New("signer id is required")
	}
	return nil
}

// Fields flattens the custom data into a single map.
func (c CustomData) Fields() map[string]string {
	out := make(map[string]string, len(c.Extra)+5)
	for k, v := range c.Extra {
		out[k] = v
	}
	reserved := map[string]string{
		"first_name":   c.FirstName,
		"last_name":    c.LastName,
		"company_name": c.CompanyName,
		"title":        c.Title,
		DeviceNameKey:  c.DeviceName,
	}
	for k, v := range reserved {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// MarshalJSON encodes reserved attributes and extensions as one object.
func (c CustomData) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

// UnmarshalJSON splits an object into reserved attributes and extensions.
func (c *CustomData) UnmarshalJSON(b []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("custom data: %w", err)
	}
	*c = CustomData{}
	for k, v := range fields {
		switch k {
		case "first_name":
			c.FirstName = v
		case "last_name":
			c.LastName = v
		case "company_name":
			c.CompanyName = v
		case "title":
			c.Title = v
		case DeviceNameKey:
			c.DeviceName = v
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]string)
			}
			c.Extra[k] = v
		}
	}
	return nil
}
