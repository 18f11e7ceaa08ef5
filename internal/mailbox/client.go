// Package mailbox reads and rewrites the recipient headers of draft
// messages over IMAP. It is the host-client boundary: the pipeline
// never touches the network, this package feeds it and writes its
// output back.
package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// draftsFolderCandidates are probed in order when no drafts folder is
// configured.
var draftsFolderCandidates = []string{
	"Drafts", "[Gmail]/Drafts", "INBOX.Drafts", "Draft",
}

// Client wraps go-imap v2 for connecting to an IMAP server and working
// with its drafts mailbox.
type Client struct {
	host         string
	port         string
	username     string
	password     string
	tls          bool
	draftsFolder string
}

// NewClient creates a new drafts client configuration. draftsFolder may
// be empty, in which case common folder names are probed on use.
func NewClient(
	host, port, username, password string, tls bool, draftsFolder string,
) *Client {
	return &Client{
		host:         host,
		port:         port,
		username:     username,
		password:     password,
		tls:          tls,
		draftsFolder: draftsFolder,
	}
}

// connect establishes a connection to the IMAP server, authenticates,
// and returns the connected client. The caller is responsible for
// calling Logout on the returned client.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Username: c.username,
			Message:  fmt.Sprintf("authentication failed: %v", err),
		}
	}

	return client, nil
}

// selectDrafts selects the drafts mailbox, probing the candidate folder
// names when none is configured, and returns the folder that was
// selected.
func (c *Client) selectDrafts(client *imapclient.Client) (string, error) {
	if c.draftsFolder != "" {
		if _, err := client.Select(c.draftsFolder, nil).Wait(); err != nil {
			return "", fmt.Errorf("selecting drafts folder %q: %w", c.draftsFolder, err)
		}
		return c.draftsFolder, nil
	}

	for _, folder := range draftsFolderCandidates {
		if _, err := client.Select(folder, nil).Wait(); err == nil {
			return folder, nil
		}
	}

	return "", fmt.Errorf("no drafts folder found (tried %v)", draftsFolderCandidates)
}

// ValidateConnection verifies credentials by connecting, authenticating,
// and selecting the drafts mailbox. Returns the selected folder name.
func (c *Client) ValidateConnection(ctx context.Context) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", fmt.Errorf("validating connection: %w", err)
	}
	defer func() { _ = client.Logout().Wait() }()

	folder, err := c.selectDrafts(client)
	if err != nil {
		return "", err
	}

	return folder, nil
}

// ListDrafts connects, selects the drafts mailbox, and returns the
// envelope view of the most recent drafts, up to limit.
func (c *Client) ListDrafts(ctx context.Context, limit int) ([]Draft, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := c.selectDrafts(client); err != nil {
		return nil, err
	}

	searchData, err := client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching drafts: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// Take the most recent UIDs.
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	uidSet := imap.UIDSetNum(uids...)

	fetchOpts := &imap.FetchOptions{
		Envelope: true,
		UID:      true,
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var drafts []Draft
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		drafts = append(drafts, draftFromBuffer(buf))
	}

	if err := fetchCmd.Close(); err != nil {
		return drafts, fmt.Errorf("fetching drafts: %w", err)
	}

	return drafts, nil
}

// FetchDraft connects, selects the drafts mailbox, and fetches the full
// raw message for the given UID along with its recipient view.
func (c *Client) FetchDraft(ctx context.Context, uid uint32) (*Draft, []byte, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := c.selectDrafts(client); err != nil {
		return nil, nil, err
	}

	uidSet := imap.UIDSetNum(imap.UID(uid))

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, nil, fmt.Errorf("draft UID %d not found", uid)
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, nil, fmt.Errorf("collecting draft data: %w", err)
	}

	draft := draftFromBuffer(buf)
	raw := buf.FindBodySection(bodySection)

	if err := fetchCmd.Close(); err != nil {
		return &draft, raw, fmt.Errorf("closing fetch: %w", err)
	}

	return &draft, raw, nil
}

// ReplaceDraft appends the rewritten message to the drafts mailbox and
// marks the original as deleted, which is how a draft edit looks to the
// rest of the mail client.
func (c *Client) ReplaceDraft(ctx context.Context, uid uint32, raw []byte) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	folder, err := c.selectDrafts(client)
	if err != nil {
		return err
	}

	appendCmd := client.Append(folder, int64(len(raw)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft},
		Time:  time.Now(),
	})
	if _, err := appendCmd.Write(raw); err != nil {
		_ = appendCmd.Close()
		return fmt.Errorf("writing rewritten draft: %w", err)
	}
	if err := appendCmd.Close(); err != nil {
		return fmt.Errorf("appending rewritten draft: %w", err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		return fmt.Errorf("appending rewritten draft: %w", err)
	}

	uidSet := imap.UIDSetNum(imap.UID(uid))
	storeCmd := client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagDeleted},
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("deleting original draft: %w", err)
	}

	if err := client.Expunge().Close(); err != nil {
		return fmt.Errorf("expunging original draft: %w", err)
	}

	return nil
}

// draftFromBuffer extracts a Draft from a FetchMessageBuffer.
func draftFromBuffer(buf *imapclient.FetchMessageBuffer) Draft {
	draft := Draft{
		UID: uint32(buf.UID),
	}

	if buf.Envelope == nil {
		return draft
	}

	draft.Subject = buf.Envelope.Subject
	draft.Date = buf.Envelope.Date
	draft.To = addressStrings(buf.Envelope.To)
	draft.Cc = addressStrings(buf.Envelope.Cc)
	draft.Bcc = addressStrings(buf.Envelope.Bcc)

	return draft
}

// addressStrings renders envelope addresses in the canonical recipient
// string form.
func addressStrings(addrs []imap.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.Name != "" {
			out = append(out, fmt.Sprintf("%s <%s>", a.Name, a.Addr()))
		} else {
			out = append(out, a.Addr())
		}
	}
	return out
}
