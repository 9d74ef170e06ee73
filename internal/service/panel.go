package service

import (
	"slices"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// Panel — состояние блока комментариев одного поста, как его видит view.
type Panel struct {
	PostID     string           `json:"post_id"`
	Opened     bool             `json:"opened"`
	Comments   []models.Comment `json:"comments"`
	Page       int              `json:"page"`
	HasMore    bool             `json:"has_more"`
	Total      int              `json:"total"`
	Loading    bool             `json:"loading"`
	Posting    bool             `json:"posting"`
	SavingEdit bool             `json:"saving_edit"`
	Input      string           `json:"input"`
	EditingID  string           `json:"editing_id,omitempty"`
	Error      string           `json:"error,omitempty"`
	Preview    *models.Comment  `json:"preview,omitempty"`
}

type panelState struct {
	Panel
	// appended — окно накоплено «load more» (страницы 1..Page).
	appended bool
}

// panel возвращает состояние поста, создавая его при необходимости. Вызывать под s.mu.
func (s *Service) panel(postID string) *panelState {
	p, ok := s.panels[postID]
	if !ok {
		p = &panelState{Panel: Panel{PostID: postID, Page: 1}}
		s.panels[postID] = p
	}

	return p
}

// snapshot — копия панели для отдачи наружу. Вызывать под s.mu.
func (p *panelState) snapshot() Panel {
	out := p.Panel
	out.Comments = slices.Clone(p.Comments)
	if out.Comments == nil {
		out.Comments = []models.Comment{}
	}
	if p.Preview != nil {
		pv := *p.Preview
		out.Preview = &pv
	}

	return out
}

// reslice пересобирает окно панели из кэша. Вызывать под s.mu.
func (s *Service) reslice(p *panelState) {
	list, ok := s.comments.Get(p.PostID)
	if !ok {
		return
	}

	size := s.opts.CommentsPageSize
	p.Total = len(list)

	// После удаления последняя страница могла опустеть.
	if !p.appended {
		for p.Page > 1 && (p.Page-1)*size >= len(list) {
			p.Page--
		}
	}

	if p.appended {
		end := min(p.Page*size, len(list))
		p.Comments = slices.Clone(list[:end])
		p.HasMore = end < len(list)
	} else {
		page, _ := s.comments.Slice(p.PostID, p.Page, size)
		p.Comments = page.Comments
		p.HasMore = page.HasMore
	}

	if len(list) > 0 {
		pv := list[0]
		p.Preview = &pv
	} else {
		p.Preview = nil
	}

	s.syncCountLocked(p.PostID, len(list))
}

// Panel — текущее состояние панели поста (без сетевых вызовов).
func (s *Service) Panel(postID string) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.panel(postID).snapshot()
}

// SetDraft обновляет буфер ввода composer.
func (s *Service) SetDraft(postID, text string) Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.panel(postID)
	p.Input = text

	return p.snapshot()
}

// syncCountLocked — счётчик комментариев поста равен длине кэша. Вызывать под s.mu.
func (s *Service) syncCountLocked(postID string, n int) {
	for i := range s.feed.posts {
		if s.feed.posts[i].ID == postID {
			s.feed.posts[i].CommentsCount = n
		}
	}
	for i := range s.mine.posts {
		if s.mine.posts[i].ID == postID {
			s.mine.posts[i].CommentsCount = n
		}
	}
}
