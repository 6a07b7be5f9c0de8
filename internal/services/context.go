package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"pnuchat-backend/internal/store"

	"github.com/google/uuid"
)

// MaterialCatalogCap bounds how many materials are injected into the
// system prompt, newest first.
const MaterialCatalogCap = 100

// basePersona is the assistant persona shared by every request.
const basePersona = `شما یک دستیار هوشمند دانشگاه پیام نور هستید. وظیفه شما کمک به دانشجویان در زمینه‌های زیر است:

1. پاسخ به سوالات آموزشی و دانشگاهی
2. راهنمایی در مورد رشته‌ها، دروس و برنامه‌های درسی
3. اطلاعات عمومی در مورد دانشگاه پیام نور
4. کمک در حل مسائل درسی و تکالیف
5. مشاوره تحصیلی

همیشه به زبان فارسی و با لحنی دوستانه، محترمانه و حرفه‌ای پاسخ دهید.
اگر سوالی خارج از حوزه تخصص شما بود، به کاربر اطلاع دهید که فقط در زمینه‌های آموزشی و دانشگاهی می‌توانید کمک کنید.`

// URLResolver resolves a stored file path to a public download URL.
type URLResolver interface {
	Resolve(filePath string) string
}

// ContextBuilder assembles the per-request system prompt from live data:
// the localized timestamp, the requesting user's profile and role, and the
// materials catalog with resolved download URLs. It only reads; failures in
// any lookup degrade the prompt instead of failing the request.
type ContextBuilder struct {
	store    store.Store
	resolver URLResolver
	location *time.Location
}

// NewContextBuilder creates a ContextBuilder. A nil location falls back to
// Asia/Tehran, matching the audience of the assistant.
func NewContextBuilder(st store.Store, resolver URLResolver, location *time.Location) *ContextBuilder {
	if location == nil {
		var err error
		location, err = time.LoadLocation("Asia/Tehran")
		if err != nil {
			location = time.UTC
		}
	}
	return &ContextBuilder{store: st, resolver: resolver, location: location}
}

// BuildSystemPrompt returns the complete system prompt for one relay call.
// userID may be nil for anonymous callers, which skips personalization.
func (b *ContextBuilder) BuildSystemPrompt(ctx context.Context, userID *uuid.UUID, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(basePersona)

	sb.WriteString("\n\nزمان فعلی: ")
	sb.WriteString(now.In(b.location).Format("2006-01-02 15:04 (MST)"))

	if userID != nil {
		b.writeUserBlock(ctx, &sb, *userID)
	}

	b.writeMaterialsBlock(ctx, &sb)

	return sb.String()
}

func (b *ContextBuilder) writeUserBlock(ctx context.Context, sb *strings.Builder, userID uuid.UUID) {
	profile, err := b.store.GetProfile(ctx, userID)
	if err != nil {
		// Non-fatal: an anonymous-looking prompt is better than no answer.
		log.Printf("[ContextBuilder] Profile lookup failed for user %s: %v", userID, err)
		return
	}

	sb.WriteString("\n\nکاربر فعلی: ")
	sb.WriteString(profile.FullName)

	role, err := b.store.GetUserRole(ctx, userID)
	if err == nil && role != "" {
		fmt.Fprintf(sb, " (نقش: %s)", role)
	}
}

func (b *ContextBuilder) writeMaterialsBlock(ctx context.Context, sb *strings.Builder) {
	materials, err := b.store.ListMaterials(ctx, MaterialCatalogCap)
	if err != nil {
		log.Printf("[ContextBuilder] Material lookup failed: %v", err)
		return
	}
	if len(materials) == 0 {
		return
	}

	sb.WriteString("\n\nمواد آموزشی قابل دانلود:\n")
	for _, m := range materials {
		url := b.resolver.Resolve(m.FilePath)
		fmt.Fprintf(sb, "- %s (%s): %s\n  لینک دانلود: %s\n", m.Title, m.Category, m.Description, url)
	}
	// The rendering layer treats bracketed URLs as a failure mode needing
	// cleanup, so the model has to be told to keep links bare.
	sb.WriteString("\nمهم: لینک‌های دانلود را همیشه به صورت خام و کامل بنویسید. هرگز لینک را داخل پرانتز یا براکت یا قالب مارک‌داون مانند [متن](لینک) قرار ندهید.")
}
