// render готовит записи для view: безопасный HTML текста, аватар и право на правку.
//
// Текст постов и комментариев приходит от пользователей backend как есть,
// поэтому markdown прогоняется через goldmark и затем через UGC-политику bluemonday.
package render

import (
	"bytes"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// avatarBase — сервис аватаров-инициалов.
const avatarBase = "https://ui-avatars.com/api/"

// Renderer — markdown -> санитизированный HTML. Безопасен для конкурентного использования.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowImages()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: policy,
	}
}

// HTML рендерит markdown. При ошибке парсера отдаётся экранированный исходник.
func (r *Renderer) HTML(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}

	return string(r.policy.SanitizeBytes(buf.Bytes()))
}

// Avatar — фото пользователя или аватар с инициалами по имени.
func Avatar(photo, name string) string {
	if photo = strings.TrimSpace(photo); photo != "" {
		return photo
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "0D8ABC")
	q.Set("color", "fff")

	return avatarBase + "?" + q.Encode()
}

// Post — пост в том виде, в котором его получает view.
type Post struct {
	models.Post
	HTML    string `json:"html"`
	Avatar  string `json:"avatar"`
	CanEdit bool   `json:"can_edit"`
}

// Comment — комментарий для view.
type Comment struct {
	models.Comment
	HTML    string `json:"html"`
	Avatar  string `json:"avatar"`
	CanEdit bool   `json:"can_edit"`
}

// Post — viewerID — id текущего пользователя (пустой, если неизвестен).
func (r *Renderer) Post(p models.Post, viewerID string) Post {
	return Post{
		Post:    p,
		HTML:    r.HTML(p.Body),
		Avatar:  Avatar(p.AuthorAvatar, p.AuthorName),
		CanEdit: viewerID != "" && p.AuthorID == viewerID && !p.Pending(),
	}
}

func (r *Renderer) Posts(in []models.Post, viewerID string) []Post {
	out := make([]Post, 0, len(in))
	for _, p := range in {
		out = append(out, r.Post(p, viewerID))
	}

	return out
}

// Comment — неподтверждённый комментарий править нельзя.
func (r *Renderer) Comment(c models.Comment, viewerID string) Comment {
	return Comment{
		Comment: c,
		HTML:    r.HTML(c.Text),
		Avatar:  Avatar(c.AuthorAvatar, c.AuthorName),
		CanEdit: viewerID != "" && c.AuthorID == viewerID && !c.Pending(),
	}
}

func (r *Renderer) Comments(in []models.Comment, viewerID string) []Comment {
	out := make([]Comment, 0, len(in))
	for _, c := range in {
		out = append(out, r.Comment(c, viewerID))
	}

	return out
}
