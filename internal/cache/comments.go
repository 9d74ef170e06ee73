// cache — кэш полных списков комментариев по постам.
//
// Кэш — источник истины для клиентской пагинации: страница комментариев
// всегда нарезается из полного списка, поэтому одинаковое содержимое кэша
// даёт одинаковый срез.
package cache

import (
	"slices"
	"sync"

	"github.com/pribylovaa/linked-feed/internal/models"
)

// Comments — post_id -> комментарии (newest first).
type Comments struct {
	mu     sync.RWMutex
	byPost map[string][]models.Comment
}

func NewComments() *Comments {
	return &Comments{byPost: make(map[string][]models.Comment)}
}

// SortNewestFirst сортирует по CreatedAt по убыванию; равные сохраняют порядок.
func SortNewestFirst(list []models.Comment) {
	slices.SortStableFunc(list, func(a, b models.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Set заменяет список поста. Записи без id и повторы по id отбрасываются.
func (c *Comments) Set(postID string, list []models.Comment) {
	seen := make(map[string]struct{}, len(list))
	out := make([]models.Comment, 0, len(list))
	for _, cm := range list {
		if cm.ID == "" {
			continue
		}
		if _, dup := seen[cm.ID]; dup {
			continue
		}
		seen[cm.ID] = struct{}{}
		out = append(out, cm)
	}
	SortNewestFirst(out)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byPost[postID] = out
}

// Get — копия списка и признак наличия в кэше.
func (c *Comments) Get(postID string) ([]models.Comment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list, ok := c.byPost[postID]
	if !ok {
		return nil, false
	}

	return slices.Clone(list), true
}

func (c *Comments) Has(postID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.byPost[postID]
	return ok
}

func (c *Comments) Len(postID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.byPost[postID])
}

// Newest — первый (самый новый) комментарий поста.
func (c *Comments) Newest(postID string) (models.Comment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := c.byPost[postID]
	if len(list) == 0 {
		return models.Comment{}, false
	}

	return list[0], true
}

// Slice нарезает страницу page (с 1) размера size.
// ok == false — списка поста нет в кэше.
func (c *Comments) Slice(postID string, page, size int) (models.CommentPage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list, ok := c.byPost[postID]
	if !ok {
		return models.CommentPage{}, false
	}

	return slicePage(postID, list, page, size), true
}

func slicePage(postID string, list []models.Comment, page, size int) models.CommentPage {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	start := min((page-1)*size, len(list))
	end := min(start+size, len(list))

	return models.CommentPage{
		PostID:   postID,
		Comments: slices.Clone(list[start:end]),
		Page:     page,
		HasMore:  end < len(list),
		Total:    len(list),
	}
}

// Insert ставит запись в начало списка (оптимистичный комментарий).
func (c *Comments) Insert(postID string, cm models.Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byPost[postID] = append([]models.Comment{cm}, c.byPost[postID]...)
}

// Replace подменяет запись id на cm. Если cm.ID уже есть в списке
// (сервер успел прислать запись через refetch), запись id просто удаляется.
func (c *Comments) Replace(postID, id string, cm models.Comment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.byPost[postID]
	i := slices.IndexFunc(list, func(x models.Comment) bool { return x.ID == id })
	if i < 0 {
		return false
	}

	if cm.ID != id && slices.ContainsFunc(list, func(x models.Comment) bool { return x.ID == cm.ID }) {
		c.byPost[postID] = slices.Delete(list, i, i+1)
		return true
	}

	list[i] = cm
	return true
}

// Upsert кладёт подтверждённую запись в загруженный список: заменяет
// запись с тем же id или вставляет с сохранением порядка newest first.
// false — списка поста нет в кэше.
func (c *Comments) Upsert(postID string, cm models.Comment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, ok := c.byPost[postID]
	if !ok {
		return false
	}

	if i := slices.IndexFunc(list, func(x models.Comment) bool { return x.ID == cm.ID }); i >= 0 {
		list[i] = cm
		return true
	}

	list = append([]models.Comment{cm}, list...)
	SortNewestFirst(list)
	c.byPost[postID] = list

	return true
}

// Remove удаляет запись и возвращает её.
func (c *Comments) Remove(postID, id string) (models.Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.byPost[postID]
	i := slices.IndexFunc(list, func(x models.Comment) bool { return x.ID == id })
	if i < 0 {
		return models.Comment{}, false
	}

	removed := list[i]
	c.byPost[postID] = slices.Delete(list, i, i+1)

	return removed, true
}

func (c *Comments) Find(postID, id string) (models.Comment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, x := range c.byPost[postID] {
		if x.ID == id {
			return x, true
		}
	}

	return models.Comment{}, false
}

// UpdateText меняет текст подтверждённой записи.
func (c *Comments) UpdateText(postID, id, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.byPost[postID] {
		if c.byPost[postID][i].ID == id {
			c.byPost[postID][i].Text = text
			return true
		}
	}

	return false
}

// Forget выбрасывает список поста (следующая загрузка пойдёт в сеть).
func (c *Comments) Forget(postID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byPost, postID)
}

// Reset очищает кэш целиком (смена сессии).
func (c *Comments) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byPost = make(map[string][]models.Comment)
}
