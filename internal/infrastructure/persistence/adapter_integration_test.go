package persistence_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tenderhub/tender-backend/internal/db"
	"github.com/tenderhub/tender-backend/internal/domain/entity"
	"github.com/tenderhub/tender-backend/internal/infrastructure/persistence"
	"github.com/tenderhub/tender-backend/internal/pkg/apperror"
)

// Интеграционные тесты контракта персистентности против настоящего PostgreSQL:
// неизменяемость отправленных заявок, проверка ожидаемой версии при сохранении
// и непрерывность нумерации снимков обеспечиваются на уровне SQL.
// Запуск: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/persistence/...

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}

	ctx := context.Background()
	conn, err := db.NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("подключение к базе: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.RunMigrations(ctx, conn, "../../../migrations"); err != nil {
		t.Fatalf("миграции: %v", err)
	}
	return conn
}

// insertFixture создаёт компанию и тендер и регистрирует удаление всех
// связанных строк по окончании теста.
func insertFixture(t *testing.T, conn *sqlx.DB) (tenderID, companyID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	companyID = uuid.New()
	tenderID = uuid.New()

	_, err := conn.ExecContext(ctx,
		`INSERT INTO companies (id, owner_user_id, name) VALUES ($1, $2, $3)`,
		companyID, uuid.New(), "Тестовая компания")
	if err != nil {
		t.Fatalf("вставка компании: %v", err)
	}
	_, err = conn.ExecContext(ctx,
		`INSERT INTO tenders (id, reference, title) VALUES ($1, $2, $3)`,
		tenderID, "T-"+uuid.NewString(), "Тестовый тендер")
	if err != nil {
		t.Fatalf("вставка тендера: %v", err)
	}

	t.Cleanup(func() {
		conn.ExecContext(ctx, `DELETE FROM proposals WHERE company_id = $1`, companyID)
		conn.ExecContext(ctx, `DELETE FROM tenders WHERE id = $1`, tenderID)
		conn.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	})
	return tenderID, companyID
}

func createDraft(t *testing.T, repo *persistence.ProposalRepositoryAdapter, tenderID, companyID uuid.UUID, content string) *entity.Proposal {
	t.Helper()
	p, err := entity.NewProposal(tenderID, companyID, content)
	if err != nil {
		t.Fatalf("NewProposal: %v", err)
	}
	if err := repo.Create(context.Background(), p, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestProposalAdapter_UpdateContentSkipsSnapshot(t *testing.T) {
	conn := openTestDB(t)
	tenderID, companyID := insertFixture(t, conn)
	proposals := persistence.NewProposalRepositoryAdapter(conn)
	versions := persistence.NewVersionRepositoryAdapter(conn)
	ctx := context.Background()

	p := createDraft(t, proposals, tenderID, companyID, "Исходный текст")

	updated, err := proposals.UpdateContent(ctx, p.ID, "Обновлённый текст")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if updated.Content != "Обновлённый текст" {
		t.Errorf("содержимое = %q", updated.Content)
	}
	if updated.Version != 1 {
		t.Errorf("версия после записи без снимка = %d, ожидалась 1", updated.Version)
	}

	history, err := versions.ListByProposal(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProposal: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("снимков = %d, ожидался 1 (запись без снимка не добавляет версию)", len(history))
	}
}

func TestProposalAdapter_SaveRevisionVersionGuard(t *testing.T) {
	conn := openTestDB(t)
	tenderID, companyID := insertFixture(t, conn)
	proposals := persistence.NewProposalRepositoryAdapter(conn)
	ctx := context.Background()

	p := createDraft(t, proposals, tenderID, companyID, "Версия 1")

	updated, snap, err := proposals.SaveRevision(ctx, p.ID, 1, "Версия 2", nil)
	if err != nil {
		t.Fatalf("SaveRevision: %v", err)
	}
	if updated.Version != 2 || snap.Version != 2 {
		t.Errorf("версии после сохранения: заявка %d, снимок %d", updated.Version, snap.Version)
	}

	// Повтор с устаревшей ожидаемой версией отклоняется условием version=$3.
	if _, _, err := proposals.SaveRevision(ctx, p.ID, 1, "Гонка", nil); apperror.Code(err) != apperror.ErrCodeConflict {
		t.Errorf("устаревшая версия: ожидался конфликт, получено %v", err)
	}
}

func TestProposalAdapter_SubmittedRowIsImmutable(t *testing.T) {
	conn := openTestDB(t)
	tenderID, companyID := insertFixture(t, conn)
	proposals := persistence.NewProposalRepositoryAdapter(conn)
	ctx := context.Background()

	p := createDraft(t, proposals, tenderID, companyID, "Текст заявки")

	submitted, err := proposals.SetSubmitted(ctx, p.ID, "0xref")
	if err != nil {
		t.Fatalf("SetSubmitted: %v", err)
	}
	if !submitted.IsSubmitted() {
		t.Fatal("заявка не перешла в submitted")
	}

	if _, err := proposals.UpdateContent(ctx, p.ID, "Правка"); !apperror.IsImmutable(err) {
		t.Errorf("UpdateContent после отправки: %v", err)
	}
	if _, _, err := proposals.SaveRevision(ctx, p.ID, submitted.Version, "Правка", nil); !apperror.IsImmutable(err) {
		t.Errorf("SaveRevision после отправки: %v", err)
	}
	if _, err := proposals.SetSubmitted(ctx, p.ID, "0xref2"); !apperror.IsImmutable(err) {
		t.Errorf("повторная отправка: %v", err)
	}
	if err := proposals.Delete(ctx, p.ID); !apperror.IsImmutable(err) {
		t.Errorf("удаление после отправки: %v", err)
	}
}

func TestVersionAdapter_AppendGapRejected(t *testing.T) {
	conn := openTestDB(t)
	tenderID, companyID := insertFixture(t, conn)
	proposals := persistence.NewProposalRepositoryAdapter(conn)
	versions := persistence.NewVersionRepositoryAdapter(conn)
	ctx := context.Background()

	p := createDraft(t, proposals, tenderID, companyID, "Версия 1")

	if _, err := versions.Append(ctx, p.ID, 3, "Пропуск", nil); apperror.Code(err) != apperror.ErrCodeConflict {
		t.Errorf("пропуск номера: ожидался конфликт, получено %v", err)
	}

	snap, err := versions.Append(ctx, p.ID, 2, "Версия 2", nil)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if snap.Version != 2 {
		t.Errorf("версия снимка = %d, ожидалась 2", snap.Version)
	}

	if _, err := versions.Append(ctx, p.ID, 2, "Дубликат", nil); apperror.Code(err) != apperror.ErrCodeConflict {
		t.Errorf("дубликат номера: ожидался конфликт, получено %v", err)
	}

	history, err := versions.ListByProposal(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProposal: %v", err)
	}
	if len(history) != 2 || history[0].Version != 2 || history[1].Version != 1 {
		t.Errorf("история версий повреждена: %+v", history)
	}
}

func TestProposalAdapter_WriteToMissingProposal(t *testing.T) {
	conn := openTestDB(t)
	proposals := persistence.NewProposalRepositoryAdapter(conn)

	if _, err := proposals.UpdateContent(context.Background(), uuid.New(), "Текст"); !apperror.IsNotFound(err) {
		t.Errorf("запись в несуществующую заявку: %v", err)
	}
}
