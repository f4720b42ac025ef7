package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/huangsam/pactsafe/core/decode"
	"github.com/huangsam/pactsafe/core/query"
	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/schema"
)

var errMissingGroupKey = errors.New("group key is required")

// ActivityRequest describes one activity event to record.
type ActivityRequest struct {
	Event  schema.ActivityEvent
	Signer schema.Signer
	Group  *schema.Group

	// Connection defaults to schema.NewConnectionData when nil.
	Connection *schema.ConnectionData

	// TestMode marks this send as test data even when the client is not in test mode.
	TestMode bool
}

// LoadGroup fetches and decodes the contract group identified by groupKey.
// The response cache is bypassed unless FromCache or Refresh is passed.
func (c *Client) LoadGroup(ctx context.Context, groupKey string, opts ...CallOption) (*schema.Group, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return c.loadGroup(ctx, groupKey, opts...)
}

func (c *Client) loadGroup(ctx context.Context, groupKey string, opts ...CallOption) (*schema.Group, error) {
	sid, _, err := c.settings()
	if err != nil {
		return nil, err
	}
	rawURL, err := c.groupURL(sid, groupKey)
	if err != nil {
		return nil, err
	}

	o := resolveOptions(opts)
	body, err := c.transport.Get(ctx, rawURL, o.mode)
	if err != nil {
		return nil, fmt.Errorf("load group %q: %w", groupKey, err)
	}
	group, err := decode.DecodeGroup(body)
	if err != nil {
		if o.mode != schema.CacheNone {
			c.forget(rawURL)
		}
		return nil, fmt.Errorf("load group %q: %w", groupKey, err)
	}
	c.logger.Debug("group loaded", "group_key", group.Key, "group_id", group.ID, "contracts", len(group.Contracts), "mode", o.mode)
	return group, nil
}

// Preload fetches the group into the response cache. With refresh the
// stored response is replaced even when present. Preloaded reports the
// outcome of the latest call.
func (c *Client) Preload(ctx context.Context, groupKey string, refresh bool) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.preload(ctx, groupKey, refresh)
}

func (c *Client) preload(ctx context.Context, groupKey string, refresh bool) error {
	opt := FromCache()
	if refresh {
		opt = Refresh()
	}
	_, err := c.loadGroup(ctx, groupKey, opt)
	c.preloaded.Store(err == nil)
	if err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	return nil
}

// SendActivity records an activity event for a signer against a group.
func (c *Client) SendActivity(ctx context.Context, req ActivityRequest) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return c.sendActivity(ctx, req)
}

func (c *Client) sendActivity(ctx context.Context, req ActivityRequest) error {
	sid, testMode, err := c.settings()
	if err != nil {
		return err
	}
	if _, err := schema.ParseActivityEvent(string(req.Event)); err != nil {
		return &schema.URLConstructionError{Err: err}
	}
	if err := req.Signer.Validate(); err != nil {
		return &schema.URLConstructionError{Err: err}
	}
	if req.Group == nil {
		return &schema.URLConstructionError{Err: schema.ErrNoGroupData}
	}

	connection := req.Connection
	if connection == nil {
		fresh := schema.NewConnectionData()
		connection = &fresh
	}

	params, err := query.ActivityParams(query.ActivityInput{
		Event:             req.Event,
		SignerID:          req.Signer.ID,
		ContractIDs:       req.Group.Contracts,
		Versions:          req.Group.Versions,
		GroupID:           req.Group.ID,
		ConfirmationEmail: req.Group.ConfirmationEmail,
		TestMode:          testMode || req.TestMode,
		SiteAccessID:      sid,
		CustomData:        req.Signer.CustomData,
		Connection:        *connection,
	})
	if err != nil {
		return &schema.URLConstructionError{Err: err}
	}
	rawURL, err := query.BuildURL(c.baseURL, schema.ActivityPath, params)
	if err != nil {
		return err
	}

	if _, err := c.transport.Post(ctx, rawURL); err != nil {
		return fmt.Errorf("send %s activity: %w", req.Event, err)
	}
	c.logger.Debug("activity sent", "event", req.Event, "group_id", req.Group.ID)
	return nil
}

// SignedStatus reports which contracts of the group the signer has yet
// to accept.
func (c *Client) SignedStatus(ctx context.Context, signerID, groupKey string) (schema.SignedStatus, error) {
	if c.closed.Load() {
		return schema.SignedStatus{}, ErrClientClosed
	}
	return c.signedStatus(ctx, signerID, groupKey)
}

func (c *Client) signedStatus(ctx context.Context, signerID, groupKey string) (schema.SignedStatus, error) {
	sid, testMode, err := c.settings()
	if err != nil {
		return schema.SignedStatus{}, err
	}
	signerID = strings.TrimSpace(signerID)
	if signerID == "" {
		return schema.SignedStatus{}, &schema.URLConstructionError{Err: errors.New("signer id is required")}
	}
	if strings.TrimSpace(groupKey) == "" {
		return schema.SignedStatus{}, &schema.URLConstructionError{Err: errMissingGroupKey}
	}

	rawURL, err := query.BuildURL(c.baseURL, schema.StatusPath, query.StatusParams(signerID, groupKey, testMode, sid))
	if err != nil {
		return schema.SignedStatus{}, err
	}
	body, err := c.transport.Get(ctx, rawURL, schema.CacheNone)
	if err != nil {
		return schema.SignedStatus{}, fmt.Errorf("signed status: %w", err)
	}
	accepted, err := decode.DecodeActivityStatus(body)
	if err != nil {
		return schema.SignedStatus{}, fmt.Errorf("signed status: %w", err)
	}

	status := schema.ReduceStatus(accepted)
	status.SignerID = signerID
	status.GroupKey = groupKey
	return status, nil
}

func (c *Client) groupURL(sid, groupKey string) (string, error) {
	if strings.TrimSpace(groupKey) == "" {
		return "", &schema.URLConstructionError{Err: errMissingGroupKey}
	}
	return query.BuildURL(c.baseURL, schema.GroupPath, query.GroupParams(sid, groupKey))
}

// forget drops a stored response that failed to decode, so the next
// cached load fetches it again.
func (c *Client) forget(rawURL string) {
	store := c.cache.GetResponseStore()
	if store == nil {
		return
	}
	if err := store.Delete(iocache.CacheKey(http.MethodGet, rawURL)); err != nil {
		c.logger.Warn("response cache delete failed", "error", err)
	}
}
