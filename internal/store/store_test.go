package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/davrbek/folio/internal/model"
)

var memDBCounter int

// testDB creates an in-memory test database with the schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	memDBCounter++
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared&_foreign_keys=on", memDBCounter)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func createTestArticle(t *testing.T, q *Queries, status string) model.Article {
	t.Helper()
	a, err := q.CreateArticle(context.Background(), CreateArticleParams{
		Title:           model.NewLocalized("Sarlavha", "Title", "Заголовок"),
		Content:         model.NewLocalized("Matn", "Body text", "Текст"),
		Status:          status,
		CommentsEnabled: true,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	return a
}

func TestCreateArticle_PublishedStampsPublishedAt(t *testing.T) {
	db := testDB(t)
	q := New(db)

	published := createTestArticle(t, q, model.ArticleStatusPublished)
	if !published.PublishedAt.Valid {
		t.Error("published article should have published_at set")
	}

	draft := createTestArticle(t, q, model.ArticleStatusDraft)
	if draft.PublishedAt.Valid {
		t.Error("draft article should not have published_at set")
	}
}

func TestUpdateArticleStatus_FirstPublishOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	a := createTestArticle(t, q, model.ArticleStatusDraft)

	if err := q.UpdateArticleStatus(ctx, a.ID, model.ArticleStatusPublished); err != nil {
		t.Fatalf("UpdateArticleStatus: %v", err)
	}
	first, err := q.GetArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if !first.PublishedAt.Valid {
		t.Fatal("published_at should be set after publishing")
	}

	// Unpublish and republish: the original timestamp must survive.
	if err := q.UpdateArticleStatus(ctx, a.ID, model.ArticleStatusDraft); err != nil {
		t.Fatalf("UpdateArticleStatus: %v", err)
	}
	if err := q.UpdateArticleStatus(ctx, a.ID, model.ArticleStatusPublished); err != nil {
		t.Fatalf("UpdateArticleStatus: %v", err)
	}
	second, err := q.GetArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if !second.PublishedAt.Time.Equal(first.PublishedAt.Time) {
		t.Errorf("published_at changed on republish: %v -> %v",
			first.PublishedAt.Time, second.PublishedAt.Time)
	}
}

func TestListPublishedArticles_Pagination(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	for i := 0; i < 7; i++ {
		createTestArticle(t, q, model.ArticleStatusPublished)
	}
	createTestArticle(t, q, model.ArticleStatusDraft)

	page1, err := q.ListPublishedArticles(ctx, ListPublishedArticlesParams{Limit: 5, Offset: 0})
	if err != nil {
		t.Fatalf("ListPublishedArticles: %v", err)
	}
	if len(page1) != 5 {
		t.Errorf("len(page1) = %d, want 5", len(page1))
	}

	page2, err := q.ListPublishedArticles(ctx, ListPublishedArticlesParams{Limit: 5, Offset: 5})
	if err != nil {
		t.Fatalf("ListPublishedArticles page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Errorf("len(page2) = %d, want 2", len(page2))
	}

	count, err := q.CountPublishedArticles(ctx, "")
	if err != nil {
		t.Fatalf("CountPublishedArticles: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7 (draft must be excluded)", count)
	}
}

func TestListPublishedArticles_TagFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	tagged := createTestArticle(t, q, model.ArticleStatusPublished)
	if err := q.ReplaceArticleTags(ctx, tagged.ID, []string{"go", "web"}); err != nil {
		t.Fatalf("ReplaceArticleTags: %v", err)
	}
	createTestArticle(t, q, model.ArticleStatusPublished)

	got, err := q.ListPublishedArticles(ctx, ListPublishedArticlesParams{Tag: "go", Limit: 10})
	if err != nil {
		t.Fatalf("ListPublishedArticles: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].ID != tagged.ID {
		t.Errorf("ID = %d, want %d", got[0].ID, tagged.ID)
	}
	if len(got[0].Tags) != 2 {
		t.Errorf("tags = %v, want 2 tags attached", got[0].Tags)
	}

	count, err := q.CountPublishedArticles(ctx, "go")
	if err != nil {
		t.Fatalf("CountPublishedArticles: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestReplaceArticleTags(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	a := createTestArticle(t, q, model.ArticleStatusPublished)
	if err := q.ReplaceArticleTags(ctx, a.ID, []string{"go", "sqlite", ""}); err != nil {
		t.Fatalf("ReplaceArticleTags: %v", err)
	}
	if err := q.ReplaceArticleTags(ctx, a.ID, []string{"web"}); err != nil {
		t.Fatalf("ReplaceArticleTags: %v", err)
	}

	tags, err := q.ListArticleTags(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListArticleTags: %v", err)
	}
	if len(tags) != 1 || tags[0] != "web" {
		t.Errorf("tags = %v, want [web]", tags)
	}
}

func TestPublishDueArticles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	due, err := q.CreateArticle(ctx, CreateArticleParams{
		Title:       model.PlainText("Due"),
		Content:     model.PlainText("body"),
		Status:      model.ArticleStatusDraft,
		ScheduledAt: sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	_, err = q.CreateArticle(ctx, CreateArticleParams{
		Title:       model.PlainText("Future"),
		Content:     model.PlainText("body"),
		Status:      model.ArticleStatusDraft,
		ScheduledAt: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	n, err := q.PublishDueArticles(ctx, time.Now())
	if err != nil {
		t.Fatalf("PublishDueArticles: %v", err)
	}
	if n != 1 {
		t.Errorf("published = %d, want 1", n)
	}

	got, err := q.GetArticleByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if !got.IsPublished() {
		t.Error("due article should be published")
	}
	if got.ScheduledAt.Valid {
		t.Error("scheduled_at should be cleared after publishing")
	}
}

func TestToggleLike(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	a := createTestArticle(t, q, model.ArticleStatusPublished)

	liked, count, err := q.ToggleLike(ctx, a.ID, "viewer-1")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked || count != 1 {
		t.Errorf("first toggle: liked=%v count=%d, want true 1", liked, count)
	}

	liked, count, err = q.ToggleLike(ctx, a.ID, "viewer-2")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if !liked || count != 2 {
		t.Errorf("second viewer: liked=%v count=%d, want true 2", liked, count)
	}

	// Untoggle
	liked, count, err = q.ToggleLike(ctx, a.ID, "viewer-1")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if liked || count != 1 {
		t.Errorf("untoggle: liked=%v count=%d, want false 1", liked, count)
	}

	has, err := q.HasLiked(ctx, a.ID, "viewer-2")
	if err != nil {
		t.Fatalf("HasLiked: %v", err)
	}
	if !has {
		t.Error("viewer-2 should still be liked")
	}
}

func TestCommentModerationFlow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	a := createTestArticle(t, q, model.ArticleStatusPublished)

	c, err := q.CreateComment(ctx, CreateCommentParams{
		ArticleID: a.ID,
		Name:      "Reader",
		Content:   "Nice article",
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if c.Approved {
		t.Error("new comment should start unapproved")
	}

	visible, err := q.ListApprovedComments(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("len(visible) = %d, want 0 before approval", len(visible))
	}

	if err := q.ApproveComment(ctx, c.ID); err != nil {
		t.Fatalf("ApproveComment: %v", err)
	}
	visible, err = q.ListApprovedComments(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListApprovedComments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("len(visible) = %d, want 1 after approval", len(visible))
	}
	if !visible[0].Approved {
		t.Error("listed comment should be approved")
	}
}

func TestIncrementArticleViews(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	a := createTestArticle(t, q, model.ArticleStatusPublished)
	for i := 0; i < 3; i++ {
		if err := q.IncrementArticleViews(ctx, a.ID); err != nil {
			t.Fatalf("IncrementArticleViews: %v", err)
		}
	}

	got, err := q.GetArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if got.Views != 3 {
		t.Errorf("views = %d, want 3", got.Views)
	}
}

func TestUpsertSetting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	err := q.UpsertSetting(ctx, UpsertSettingParams{
		Key: "hero.greeting", Value: `{"uz":"Salom"}`,
		Group: model.SettingGroupTranslations, Public: true,
	})
	if err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	// Same key again replaces the value in place.
	err = q.UpsertSetting(ctx, UpsertSettingParams{
		Key: "hero.greeting", Value: `{"uz":"Assalomu alaykum"}`,
		Group: model.SettingGroupTranslations, Public: true,
	})
	if err != nil {
		t.Fatalf("UpsertSetting update: %v", err)
	}

	got, err := q.GetSettingByKey(ctx, "hero.greeting")
	if err != nil {
		t.Fatalf("GetSettingByKey: %v", err)
	}
	if got.Value != `{"uz":"Assalomu alaykum"}` {
		t.Errorf("Value = %q, want updated value", got.Value)
	}

	all, err := q.ListSettingsByGroup(ctx, model.SettingGroupTranslations)
	if err != nil {
		t.Fatalf("ListSettingsByGroup: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(all) = %d, want 1 (upsert must not duplicate)", len(all))
	}
}

func TestListPublicSettings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := q.UpsertSetting(ctx, UpsertSettingParams{
		Key: "site.owner", Value: "Davrbek",
		Group: model.SettingGroupGeneral, Public: true,
	}); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}
	if err := q.UpsertSetting(ctx, UpsertSettingParams{
		Key: "internal.flag", Value: "1",
		Group: model.SettingGroupGeneral, Public: false,
	}); err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	public, err := q.ListPublicSettings(ctx)
	if err != nil {
		t.Fatalf("ListPublicSettings: %v", err)
	}
	if len(public) != 1 || public[0].Key != "site.owner" {
		t.Errorf("public = %+v, want only site.owner", public)
	}
}

func TestMessages(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	m, err := q.CreateMessage(ctx, CreateMessageParams{
		Name: "Visitor", Email: "v@example.com",
		Subject: "Hi", Content: "Hello there", Country: "UZ",
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if m.IsRead {
		t.Error("new message should be unread")
	}

	unread, err := q.CountUnreadMessages(ctx)
	if err != nil {
		t.Fatalf("CountUnreadMessages: %v", err)
	}
	if unread != 1 {
		t.Errorf("unread = %d, want 1", unread)
	}

	if err := q.MarkMessageRead(ctx, m.ID); err != nil {
		t.Fatalf("MarkMessageRead: %v", err)
	}
	unread, err = q.CountUnreadMessages(ctx)
	if err != nil {
		t.Fatalf("CountUnreadMessages: %v", err)
	}
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestAuthTokens(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, "admin@example.com", "Admin", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	tok, err := q.CreateAuthToken(ctx, user.ID, "hash-live", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}
	_, err = q.CreateAuthToken(ctx, user.ID, "hash-expired", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("CreateAuthToken: %v", err)
	}

	found, err := q.GetAuthTokenByHash(ctx, "hash-live")
	if err != nil {
		t.Fatalf("GetAuthTokenByHash: %v", err)
	}
	if found.ID != tok.ID {
		t.Errorf("ID = %d, want %d", found.ID, tok.ID)
	}

	n, err := q.DeleteExpiredAuthTokens(ctx, time.Now())
	if err != nil {
		t.Fatalf("DeleteExpiredAuthTokens: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}

	if _, err := q.GetAuthTokenByHash(ctx, "hash-expired"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for pruned token, got %v", err)
	}
}

func TestProjects(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	p, err := q.CreateProject(ctx, CreateProjectParams{
		Title:       model.NewLocalized("Loyiha", "Project", "Проект"),
		Description: model.PlainText("A thing"),
		Featured:    false,
		Position:    2,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := q.ReplaceProjectTags(ctx, p.ID, []string{"go"}); err != nil {
		t.Fatalf("ReplaceProjectTags: %v", err)
	}

	featured, err := q.CreateProject(ctx, CreateProjectParams{
		Title:    model.PlainText("Featured"),
		Featured: true,
		Position: 5,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	list, err := q.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].ID != featured.ID {
		t.Errorf("featured project should sort first, got %d", list[0].ID)
	}
	if len(list[1].Tags) != 1 || list[1].Tags[0] != "go" {
		t.Errorf("tags = %v, want [go]", list[1].Tags)
	}
}

func TestSkillsOrdering(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	for _, s := range []CreateSkillParams{
		{Name: "PostgreSQL", Category: model.SkillCategoryBackend, Level: 80, Position: 2},
		{Name: "Go", Category: model.SkillCategoryBackend, Level: 90, Position: 1},
		{Name: "React", Category: model.SkillCategoryFrontend, Level: 85, Position: 1},
	} {
		if _, err := q.CreateSkill(ctx, s); err != nil {
			t.Fatalf("CreateSkill: %v", err)
		}
	}

	skills, err := q.ListSkills(ctx)
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	want := []string{"Go", "PostgreSQL", "React"}
	if len(skills) != len(want) {
		t.Fatalf("len(skills) = %d, want %d", len(skills), len(want))
	}
	for i, name := range want {
		if skills[i].Name != name {
			t.Errorf("skills[%d].Name = %q, want %q", i, skills[i].Name, name)
		}
	}
}

func TestExperiences(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	current, err := q.CreateExperience(ctx, CreateExperienceParams{
		Role:      model.PlainText("Backend Engineer"),
		Company:   model.PlainText("Acme"),
		StartDate: "2024-01",
		Position:  1,
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	if !current.IsCurrent() {
		t.Error("experience without end_date should be current")
	}

	_, err = q.CreateExperience(ctx, CreateExperienceParams{
		Role:      model.PlainText("Intern"),
		Company:   model.PlainText("Startup"),
		StartDate: "2022-06",
		EndDate:   sql.NullString{String: "2023-12", Valid: true},
		Position:  2,
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	list, err := q.ListExperiences(ctx)
	if err != nil {
		t.Fatalf("ListExperiences: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].ID != current.ID {
		t.Errorf("current experience should sort first")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := Seed(ctx, db, "", ""); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	admin, err := q.GetUserByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.Name != DefaultAdminName {
		t.Errorf("Name = %q, want %q", admin.Name, DefaultAdminName)
	}

	if err := Seed(ctx, db, "", ""); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (seed must be idempotent)", count)
	}

	settings, err := q.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings: %v", err)
	}
	if len(settings) == 0 {
		t.Error("seed should create default settings")
	}
}

func TestEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	if err := q.InsertEvent(ctx, model.EventLevelError, "api", "boom"); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if err := q.InsertEvent(ctx, model.EventLevelWarning, "scheduler", "slow run"); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}

	events, err := q.ListEvents(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].Message != "slow run" {
		t.Errorf("newest event first, got %q", events[0].Message)
	}

	count, err := q.CountEvents(ctx)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
