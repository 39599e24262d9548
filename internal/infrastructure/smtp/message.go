package smtp

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
)

var utf8Params = map[string]string{"charset": "utf-8"}

// BuildMessage encodes msg as a multipart/alternative RFC 5322 message
// carrying a text/plain and a text/html part.
func BuildMessage(msg dto.EmailMessage, date time.Time) ([]byte, error) {
	var b bytes.Buffer

	var h mail.Header
	h.SetDate(date)
	h.SetSubject(msg.Subject)
	h.SetAddressList("From", []*mail.Address{{Name: msg.FromName, Address: msg.FromAddress}})
	h.SetAddressList("To", []*mail.Address{{Address: msg.To}})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	w, err := mail.CreateInlineWriter(&b, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	if err := writePart(w, "text/plain", msg.Text); err != nil {
		return nil, err
	}
	if err := writePart(w, "text/html", msg.HTML); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return b.Bytes(), nil
}

func writePart(w *mail.InlineWriter, contentType, body string) error {
	var h mail.InlineHeader
	h.SetContentType(contentType, utf8Params)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(part, body); err != nil {
		part.Close()
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	return part.Close()
}
