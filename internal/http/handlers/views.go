package handlers

import (
	"context"

	"github.com/pribylovaa/linked-feed/internal/models"
	"github.com/pribylovaa/linked-feed/internal/render"
	"github.com/pribylovaa/linked-feed/internal/service"
)

// panelView — панель комментариев с отрендеренными записями.
type panelView struct {
	service.Panel
	Comments []render.Comment `json:"comments"`
	Preview  *render.Comment  `json:"preview,omitempty"`
}

// postCard — карточка поста: превью последнего комментария из кэша.
type postCard struct {
	render.Post
	Preview *render.Comment `json:"preview,omitempty"`
}

type feedView struct {
	Posts      []postCard         `json:"posts"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	HasMore    bool               `json:"has_more"`
	Pager      []service.PageItem `json:"pager"`
}

type myPostsView struct {
	Posts   []postCard `json:"posts"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}

type postDetailView struct {
	Post  render.Post `json:"post"`
	Panel panelView   `json:"panel"`
}

func (h *Handlers) panelView(p service.Panel, viewerID string) panelView {
	out := panelView{Panel: p, Comments: h.render.Comments(p.Comments, viewerID)}
	if p.Preview != nil {
		c := h.render.Comment(*p.Preview, viewerID)
		out.Preview = &c
	}

	return out
}

func (h *Handlers) cards(posts []models.Post, viewerID string) []postCard {
	out := make([]postCard, 0, len(posts))
	for _, p := range posts {
		card := postCard{Post: h.render.Post(p, viewerID)}
		if pv := h.svc.Panel(p.ID).Preview; pv != nil {
			c := h.render.Comment(*pv, viewerID)
			card.Preview = &c
		}
		out = append(out, card)
	}

	return out
}

func (h *Handlers) feedView(ctx context.Context, page models.PostPage) feedView {
	return feedView{
		Posts:      h.cards(page.Posts, h.viewer(ctx)),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		HasMore:    page.HasMore,
		Pager:      service.BuildPageWindow(page.Page, page.TotalPages),
	}
}
