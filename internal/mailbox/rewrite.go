package mailbox

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-message"
	gomail "github.com/emersion/go-message/mail"

	"github.com/nhle/mailgroom/internal/recipient"
)

// RewriteRecipients parses a raw draft message and returns it with its
// To, Cc, and Bcc headers replaced by the given recipient strings. The
// body and all other headers are carried over untouched. An empty list
// removes the corresponding header entirely.
func RewriteRecipients(raw []byte, to, cc, bcc []string) ([]byte, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing draft message: %w", err)
	}

	header := gomail.Header{Header: entity.Header}
	setRecipientHeader(&header, "To", to)
	setRecipientHeader(&header, "Cc", cc)
	setRecipientHeader(&header, "Bcc", bcc)
	entity.Header = header.Header

	var buf bytes.Buffer
	if err := entity.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing rewritten draft: %w", err)
	}

	return buf.Bytes(), nil
}

// setRecipientHeader writes one recipient header from canonical
// recipient strings, deleting the header when the list is empty.
func setRecipientHeader(header *gomail.Header, key string, values []string) {
	if len(values) == 0 {
		header.Del(key)
		return
	}

	addrs := make([]*gomail.Address, 0, len(values))
	for _, v := range values {
		entry := recipient.Parse(v)
		addrs = append(addrs, &gomail.Address{
			Name:    entry.Name,
			Address: entry.Email,
		})
	}

	header.SetAddressList(key, addrs)
}
