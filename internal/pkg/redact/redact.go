// redact маскирует чувствительные значения перед записью в логи.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local := []rune(parts[0])
	if len(local) > 2 {
		return string(local[:2]) + "***@" + parts[1]
	}

	return "***@" + parts[1]
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }

// sensitiveHeaders — заголовки, в которых backend ожидает токен.
var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"token":         {},
	"cookie":        {},
	"set-cookie":    {},
}

// Header возвращает значение заголовка, пригодное для лога.
// Для заголовков с токеном сохраняется только схема ("Bearer").
func Header(name, value string) string {
	if _, ok := sensitiveHeaders[strings.ToLower(name)]; !ok {
		return value
	}

	if value == "" {
		return ""
	}

	if scheme, _, found := strings.Cut(value, " "); found {
		return scheme + " " + Token()
	}

	return Token()
}
