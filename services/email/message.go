package emailsvc

import (
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/hometuition/portal/core"
)

// buildMessage renders msg as a plain-text RFC 5322 message.
func buildMessage(from mail.Address, msg *core.EmailMessage) []byte {
	body := new(strings.Builder)

	// Write mail header
	_, _ = fmt.Fprintf(body, "From: %s\r\n", from.String())
	_, _ = fmt.Fprintf(body, "To: %s\r\n", msg.ToHeader())
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprint(body, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	_, _ = fmt.Fprint(body, "Content-Transfer-Encoding: 8bit\r\n")
	_, _ = fmt.Fprint(body, "\r\n")

	_, _ = fmt.Fprintf(body, "%s\r\n", strings.ReplaceAll(msg.BodyStr, "\n", "\r\n"))
	return []byte(body.String())
}

func sender(msg *core.EmailMessage, dflt mail.Address) mail.Address {
	if msg.From.Address != "" {
		return msg.From
	}
	return dflt
}
