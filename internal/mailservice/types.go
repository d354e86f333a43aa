package mailservice

import (
	"context"
	"html/template"
	"sync"

	"github.com/go-mail/mail/v2"

	"github.com/ogcamping/console/internal/common"
)

type MailService struct {
	mb      common.MessageConsumer
	m       Mailer
	logger  MailLogger
	siteURL string
	ctx     context.Context
	cancel  context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

type Template struct {
	byName map[string]*template.Template
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	Render(name string, data any) (*Rendered, error)
}

// ReviewData is the template data of a review outcome e-mail.
type ReviewData struct {
	Title  string
	Author string
	Reason string
	Link   string
}
