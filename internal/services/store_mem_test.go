package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// memStore is an in-memory store.Store used across the service tests.
type memStore struct {
	users         map[uuid.UUID]models.User
	profiles      map[uuid.UUID]models.Profile
	roles         map[uuid.UUID]string
	conversations map[uuid.UUID]models.Conversation
	messages      []models.Message
	materials     []models.Material
	ads           map[uuid.UUID]models.Ad
	news          map[uuid.UUID]models.NewsItem
	requests      []models.Request
	settings      map[uuid.UUID]models.SystemSetting
	limits        map[uuid.UUID]models.DailyLimit
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:         map[uuid.UUID]models.User{},
		profiles:      map[uuid.UUID]models.Profile{},
		roles:         map[uuid.UUID]string{},
		conversations: map[uuid.UUID]models.Conversation{},
		ads:           map[uuid.UUID]models.Ad{},
		news:          map[uuid.UUID]models.NewsItem{},
		settings:      map[uuid.UUID]models.SystemSetting{},
		limits:        map[uuid.UUID]models.DailyLimit{},
	}
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) ListUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memStore) CreateProfile(_ context.Context, profile *models.Profile) error {
	m.profiles[profile.ID] = *profile
	return nil
}

func (m *memStore) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetUserRole(_ context.Context, userID uuid.UUID) (string, error) {
	role, ok := m.roles[userID]
	if !ok {
		return "", store.ErrNotFound
	}
	return role, nil
}

func (m *memStore) SetUserRole(_ context.Context, userID uuid.UUID, role string) error {
	m.roles[userID] = role
	return nil
}

func (m *memStore) CreateConversation(_ context.Context, userID uuid.UUID, title string) (*models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.conversations[conv.ID] = conv
	return &conv, nil
}

func (m *memStore) GetConversationByID(_ context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv, ok := m.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &conv, nil
}

func (m *memStore) ListConversationsByUser(_ context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range m.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memStore) UpdateConversationTitle(_ context.Context, id uuid.UUID, title string) error {
	conv, ok := m.conversations[id]
	if !ok {
		return store.ErrNotFound
	}
	conv.Title = title
	conv.UpdatedAt = time.Now()
	m.conversations[id] = conv
	return nil
}

func (m *memStore) TouchConversation(_ context.Context, id uuid.UUID) error {
	conv, ok := m.conversations[id]
	if !ok {
		return store.ErrNotFound
	}
	conv.UpdatedAt = time.Now()
	m.conversations[id] = conv
	return nil
}

func (m *memStore) DeleteConversation(_ context.Context, id uuid.UUID) error {
	if _, ok := m.conversations[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.conversations, id)
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.ConversationID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *memStore) CreateMessage(_ context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	msg := models.Message{
		ID:             arg.ID,
		ConversationID: arg.ConversationID,
		Role:           arg.Role,
		Content:        arg.Content,
		ImageURL:       arg.ImageURL,
		FileURL:        arg.FileURL,
		CreatedAt:      time.Now(),
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	m.messages = append(m.messages, msg)
	return &msg, nil
}

func (m *memStore) GetMessageByID(_ context.Context, id uuid.UUID) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ID == id {
			msg := msg
			return &msg, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) ListMessages(_ context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) UpdateMessageContent(_ context.Context, id uuid.UUID, content string) error {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages[i].Content = content
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) DeleteMessage(_ context.Context, id uuid.UUID) error {
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) CreateMaterial(_ context.Context, arg store.CreateMaterialParams) (*models.Material, error) {
	mat := models.Material{
		ID:          arg.ID,
		Title:       arg.Title,
		Description: arg.Description,
		Category:    arg.Category,
		FilePath:    arg.FilePath,
		UploadedBy:  arg.UploadedBy,
		CreatedAt:   time.Now(),
	}
	if mat.ID == uuid.Nil {
		mat.ID = uuid.New()
	}
	m.materials = append(m.materials, mat)
	return &mat, nil
}

func (m *memStore) ListMaterials(_ context.Context, limit int) ([]models.Material, error) {
	out := make([]models.Material, len(m.materials))
	copy(out, m.materials)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) DeleteMaterial(_ context.Context, id uuid.UUID) error {
	for i, mat := range m.materials {
		if mat.ID == id {
			m.materials = append(m.materials[:i], m.materials[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) UpsertAd(_ context.Context, arg store.UpsertAdParams) (*models.Ad, error) {
	ad := models.Ad{
		ID:       arg.ID,
		Title:    arg.Title,
		Content:  arg.Content,
		ImageURL: arg.ImageURL,
		LinkURL:  arg.LinkURL,
		Position: arg.Position,
		IsActive: arg.IsActive,
	}
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}
	m.ads[ad.ID] = ad
	return &ad, nil
}

func (m *memStore) ListAds(_ context.Context, position string, activeOnly bool) ([]models.Ad, error) {
	var out []models.Ad
	for _, ad := range m.ads {
		if position != "" && ad.Position != position {
			continue
		}
		if activeOnly && !ad.IsActive {
			continue
		}
		out = append(out, ad)
	}
	return out, nil
}

func (m *memStore) DeleteAd(_ context.Context, id uuid.UUID) error {
	if _, ok := m.ads[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.ads, id)
	return nil
}

func (m *memStore) UpsertNews(_ context.Context, arg store.UpsertNewsParams) (*models.NewsItem, error) {
	item := models.NewsItem{
		ID:          arg.ID,
		Title:       arg.Title,
		Content:     arg.Content,
		ImageURL:    arg.ImageURL,
		IsPublished: arg.IsPublished,
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.news[item.ID] = item
	return &item, nil
}

func (m *memStore) ListNews(_ context.Context, publishedOnly bool) ([]models.NewsItem, error) {
	var out []models.NewsItem
	for _, item := range m.news {
		if publishedOnly && !item.IsPublished {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) DeleteNews(_ context.Context, id uuid.UUID) error {
	if _, ok := m.news[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.news, id)
	return nil
}

func (m *memStore) CreateRequest(_ context.Context, arg store.CreateRequestParams) (*models.Request, error) {
	req := models.Request{
		ID:          arg.ID,
		UserID:      arg.UserID,
		Title:       arg.Title,
		Description: arg.Description,
		Category:    arg.Category,
		Status:      "pending",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	m.requests = append(m.requests, req)
	return &req, nil
}

func (m *memStore) ListRequests(_ context.Context, status string) ([]store.RequestWithProfile, error) {
	var out []store.RequestWithProfile
	for i := len(m.requests) - 1; i >= 0; i-- {
		req := m.requests[i]
		if status != "" && req.Status != status {
			continue
		}
		name := ""
		if p, ok := m.profiles[req.UserID]; ok {
			name = p.FullName
		}
		out = append(out, store.RequestWithProfile{Request: req, FullName: name})
	}
	return out, nil
}

func (m *memStore) ListRequestsByUser(_ context.Context, userID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].UserID == userID {
			out = append(out, m.requests[i])
		}
	}
	return out, nil
}

func (m *memStore) ReviewRequest(_ context.Context, arg store.ReviewRequestParams) (*models.Request, error) {
	for i, req := range m.requests {
		if req.ID == arg.ID {
			m.requests[i].Status = arg.Status
			m.requests[i].AdminResponse = arg.AdminResponse
			m.requests[i].UpdatedAt = time.Now()
			req := m.requests[i]
			return &req, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) DeleteRequest(_ context.Context, id uuid.UUID) error {
	for i, req := range m.requests {
		if req.ID == id {
			m.requests = append(m.requests[:i], m.requests[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) ListSettings(_ context.Context) ([]models.SystemSetting, error) {
	out := make([]models.SystemSetting, 0, len(m.settings))
	for _, st := range m.settings {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (m *memStore) UpdateSettingValue(_ context.Context, id uuid.UUID, value []byte) (*models.SystemSetting, error) {
	st, ok := m.settings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	st.Value = append([]byte(nil), value...)
	m.settings[id] = st
	return &st, nil
}

func (m *memStore) GetDailyLimit(_ context.Context, userID uuid.UUID) (*models.DailyLimit, error) {
	limit, ok := m.limits[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &limit, nil
}

func (m *memStore) UpsertDailyLimit(_ context.Context, limit *models.DailyLimit) error {
	m.limits[limit.UserID] = *limit
	return nil
}

// containsFold reports whether s contains substr case-insensitively. Used by
// assertions over Persian and Latin mixed content.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
