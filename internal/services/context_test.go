package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"pnuchat-backend/internal/models"
	"pnuchat-backend/internal/store"
	"pnuchat-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tehranBuilder(st store.Store) *ContextBuilder {
	resolver := storage.NewPublicURLResolver("https://example.supabase.co", "educational-files")
	return NewContextBuilder(st, resolver, time.UTC)
}

func TestBuildSystemPrompt_AnonymousHasNoUserBlock(t *testing.T) {
	st := newMemStore()
	b := tehranBuilder(st)

	prompt := b.BuildSystemPrompt(context.Background(), nil, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(prompt, "شما یک دستیار هوشمند دانشگاه پیام نور"))
	assert.Contains(t, prompt, "2025-03-01 10:30")
	assert.NotContains(t, prompt, "کاربر فعلی")
	assert.NotContains(t, prompt, "مواد آموزشی")
}

func TestBuildSystemPrompt_UserBlockWithRole(t *testing.T) {
	st := newMemStore()
	userID := uuid.New()
	require.NoError(t, st.CreateProfile(context.Background(), &models.Profile{ID: userID, FullName: "علی رضایی"}))
	require.NoError(t, st.SetUserRole(context.Background(), userID, "admin"))

	prompt := tehranBuilder(st).BuildSystemPrompt(context.Background(), &userID, time.Now())

	assert.Contains(t, prompt, "کاربر فعلی: علی رضایی")
	assert.Contains(t, prompt, "(نقش: admin)")
}

func TestBuildSystemPrompt_MissingProfileDegrades(t *testing.T) {
	st := newMemStore()
	userID := uuid.New()

	prompt := tehranBuilder(st).BuildSystemPrompt(context.Background(), &userID, time.Now())

	// Unknown user still gets a full prompt, just without personalization.
	assert.Contains(t, prompt, "زمان فعلی")
	assert.NotContains(t, prompt, "کاربر فعلی")
}

func TestBuildSystemPrompt_MaterialsWithRawURLs(t *testing.T) {
	st := newMemStore()
	_, err := st.CreateMaterial(context.Background(), store.CreateMaterialParams{
		Title:       "جزوه ریاضی ۱",
		Description: "فصل اول تا سوم",
		Category:    "ریاضی",
		FilePath:    "math/جزوه (نسخه ۲).pdf",
	})
	require.NoError(t, err)

	prompt := tehranBuilder(st).BuildSystemPrompt(context.Background(), nil, time.Now())

	assert.Contains(t, prompt, "مواد آموزشی قابل دانلود")
	assert.Contains(t, prompt, "جزوه ریاضی ۱")

	// The download link must appear bare, with path characters escaped so
	// parentheses in file names cannot truncate it.
	assert.Contains(t, prompt, "https://example.supabase.co/storage/v1/object/public/educational-files/math/")
	for _, line := range strings.Split(prompt, "\n") {
		if !containsFold(line, "لینک دانلود") {
			continue
		}
		assert.NotContains(t, line, "](")
		assert.NotContains(t, line, " (", "resolved URL line must not contain raw parentheses")
	}

	// The prompt instructs the model to keep links out of markdown syntax.
	assert.Contains(t, prompt, "قالب مارک‌داون")
}
