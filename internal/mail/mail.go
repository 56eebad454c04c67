package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// Recipient адресат письма
type Recipient struct {
	Name           string
	Email          string
	TelegramChatID *int64
}

// Address возвращает адрес в формате "Name <email>"
func (r Recipient) Address() string {
	return fmt.Sprintf("%s <%s>", r.Name, r.Email)
}

// Message письмо: получатель, тема, имя шаблона и данные для него
type Message struct {
	To       Recipient
	Subject  string
	Template string
	Context  map[string]string
}

// Dispatcher отправляет письма. Ошибка возвращается вызывающему (обработчику очереди),
// который решает о повторе.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// Render рендерит текст письма по шаблону
func Render(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, msg.Template+".tmpl", msg.Context); err != nil {
		return "", fmt.Errorf("render template %q: %w", msg.Template, err)
	}
	return buf.String(), nil
}
