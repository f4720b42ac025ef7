package core

import (
	"context"
	"sync"

	"github.com/huangsam/pactsafe/schema"
)

// Clickwrap drives an acceptance prompt for a single group: load the
// group, render its acceptance text and record what the signer did.
type Clickwrap struct {
	client *Client

	mu    sync.RWMutex
	group *schema.Group
}

// Clickwrap returns a prompt bound to c.
func (c *Client) Clickwrap() *Clickwrap {
	return &Clickwrap{client: c}
}

// Load fetches the group. A group warmed by Preload is served from the
// response cache.
func (w *Clickwrap) Load(ctx context.Context, groupKey string) (*schema.Group, error) {
	var opts []CallOption
	if w.client.Preloaded() {
		opts = append(opts, FromCache())
	}
	group, err := w.client.LoadGroup(ctx, groupKey, opts...)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	w.group = group
	w.mu.Unlock()
	return group, nil
}

// Group returns the loaded group, or schema.ErrNoGroupData.
func (w *Clickwrap) Group() (*schema.Group, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.group == nil {
		return nil, schema.ErrNoGroupData
	}
	return w.group, nil
}

// AcceptanceText renders the sentence shown next to the accept control.
func (w *Clickwrap) AcceptanceText() (string, error) {
	group, err := w.Group()
	if err != nil {
		return "", err
	}
	return group.AcceptanceText(), nil
}

// ContractLinks lists the group's contracts with their legal center links.
func (w *Clickwrap) ContractLinks() ([]schema.ContractLink, error) {
	group, err := w.Group()
	if err != nil {
		return nil, err
	}
	return group.ContractLinks(), nil
}

// ChangeSummary describes the outstanding contracts a returning signer
// must accept again.
func (w *Clickwrap) ChangeSummary(outstandingIDs []string) (string, error) {
	group, err := w.Group()
	if err != nil {
		return "", err
	}
	return group.ChangeSummary(outstandingIDs), nil
}

// NeedsAcceptance checks the signer's status against the loaded group.
func (w *Clickwrap) NeedsAcceptance(ctx context.Context, signerID string) (schema.SignedStatus, error) {
	group, err := w.Group()
	if err != nil {
		return schema.SignedStatus{}, err
	}
	return w.client.SignedStatus(ctx, signerID, group.Key)
}

// SendAgreed records that the signer accepted the loaded group.
func (w *Clickwrap) SendAgreed(ctx context.Context, signer schema.Signer) error {
	return w.send(ctx, schema.Agreed, signer)
}

// SendDisplayed records that the loaded group was shown to the signer.
func (w *Clickwrap) SendDisplayed(ctx context.Context, signer schema.Signer) error {
	return w.send(ctx, schema.Displayed, signer)
}

// SendDisagreed records that the signer declined the loaded group.
func (w *Clickwrap) SendDisagreed(ctx context.Context, signer schema.Signer) error {
	return w.send(ctx, schema.Disagreed, signer)
}

func (w *Clickwrap) send(ctx context.Context, event schema.ActivityEvent, signer schema.Signer) error {
	group, err := w.Group()
	if err != nil {
		return err
	}
	return w.client.SendActivity(ctx, ActivityRequest{Event: event, Signer: signer, Group: group})
}
