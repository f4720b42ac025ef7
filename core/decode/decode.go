// Package decode turns raw endpoint payloads into domain records.
// Payloads are validated against embedded JSON schemas before they are
// unmarshalled, so a decode either yields a complete value or fails.
package decode

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/huangsam/pactsafe/schema"
	"github.com/kaptinlin/jsonschema"
)

var (
	//go:embed group.schema.json
	groupSchemaJSON []byte

	//go:embed status.schema.json
	statusSchemaJSON []byte
)

var (
	groupSchema  = sync.OnceValues(func() (*jsonschema.Schema, error) { return compile(groupSchemaJSON) })
	statusSchema = sync.OnceValues(func() (*jsonschema.Schema, error) { return compile(statusSchemaJSON) })
)

func compile(data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	s, err := compiler.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// validate checks data against the schema returned by load.
func validate(load func() (*jsonschema.Schema, error), data []byte) error {
	if len(data) == 0 {
		return schema.ErrEmptyResponse
	}
	if !json.Valid(data) {
		return errors.New("malformed json")
	}
	s, err := load()
	if err != nil {
		return err
	}
	result := s.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// DecodeGroup decodes a group-load payload. Unknown fields are ignored and
// null optional fields decode as absent. A missing or mistyped key, group
// id or contract list fails with *schema.DecodeError and a nil Group.
func DecodeGroup(data []byte) (*schema.Group, error) {
	if err := validate(groupSchema, data); err != nil {
		return nil, &schema.DecodeError{Target: "group", Err: err}
	}

	var g schema.Group
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, &schema.DecodeError{Target: "group", Err: err}
	}

	if err := dropNullContracts(data, &g); err != nil {
		return nil, &schema.DecodeError{Target: "group", Err: err}
	}
	if err := checkContractData(&g); err != nil {
		return nil, &schema.DecodeError{Target: "group", Err: err}
	}
	return &g, nil
}

// dropNullContracts removes contract_data entries that are null on the
// wire, which Unmarshal would otherwise keep as zero Contracts.
func dropNullContracts(data []byte, g *schema.Group) error {
	if len(g.ContractData) == 0 {
		return nil
	}
	var raw struct {
		ContractData map[string]*schema.Contract `json:"contract_data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for id, c := range raw.ContractData {
		if c == nil {
			delete(g.ContractData, id)
		}
	}
	if len(g.ContractData) == 0 {
		g.ContractData = nil
	}
	return nil
}

// checkContractData enforces that every contract_data key names a
// contract listed in the group.
func checkContractData(g *schema.Group) error {
	if len(g.ContractData) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(g.Contracts))
	for _, id := range g.Contracts {
		known[strconv.FormatInt(id, 10)] = struct{}{}
	}
	for key := range g.ContractData {
		if _, ok := known[key]; !ok {
			return fmt.Errorf("contract_data references unknown contract %q", key)
		}
	}
	return nil
}

// DecodeActivityStatus decodes a signed-status payload into a map of
// contract id to accepted flag.
func DecodeActivityStatus(data []byte) (map[string]bool, error) {
	if err := validate(statusSchema, data); err != nil {
		return nil, &schema.DecodeError{Target: "activity status", Err: err}
	}

	var status map[string]bool
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, &schema.DecodeError{Target: "activity status", Err: err}
	}
	if status == nil {
		status = map[string]bool{}
	}
	return status, nil
}
