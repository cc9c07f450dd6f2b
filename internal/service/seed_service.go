package service

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tenderhub/tender-backend/internal/logger"
)

// SeedService наполняет базу демонстрационными тендерами и компаниями.
// Используется только в development окружении.
type SeedService struct {
	db *sqlx.DB
}

func NewSeedService(db *sqlx.DB) *SeedService {
	return &SeedService{db: db}
}

var seedCategories = []string{
	"строительство",
	"ИТ услуги",
	"медицинское оборудование",
	"транспорт",
	"консалтинг",
}

// Seed создаёт demo данные, если база пуста. Повторный запуск безвреден.
func (s *SeedService) Seed(ctx context.Context, tenderCount, companyCount int) error {
	var existing int
	if err := s.db.GetContext(ctx, &existing, "SELECT COUNT(*) FROM tenders"); err != nil {
		return err
	}
	if existing > 0 {
		logger.Log.Debug("Seed пропущен: тендеры уже существуют")
		return nil
	}

	gofakeit.Seed(0)

	for i := 0; i < companyCount; i++ {
		certs := pq.StringArray{gofakeit.BuzzWord(), gofakeit.BuzzWord()}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO companies (owner_user_id, name, description, certifications, experience)
			VALUES (gen_random_uuid(), $1, $2, $3, $4)`,
			gofakeit.Company(),
			gofakeit.Blurb(),
			certs,
			fmt.Sprintf("%d лет на рынке", gofakeit.Number(1, 25)),
		)
		if err != nil {
			return err
		}
	}

	for i := 0; i < tenderCount; i++ {
		category := seedCategories[gofakeit.Number(0, len(seedCategories)-1)]
		budget := float64(gofakeit.Number(500_000, 50_000_000))
		requirements := pq.StringArray{gofakeit.Sentence(8), gofakeit.Sentence(8), gofakeit.Sentence(8)}
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO tenders (reference, title, description, category, requirements, budget, deadline, status)
			VALUES ($1, $2, $3, $4, $5, $6, NOW() + INTERVAL '30 days', 'open')`,
			fmt.Sprintf("T-%d-%03d", gofakeit.Number(2024, 2026), i+1),
			gofakeit.BuzzWord()+" "+gofakeit.BS(),
			gofakeit.Paragraph(2, 4, 10, " "),
			category,
			requirements,
			budget,
		)
		if err != nil {
			return err
		}
	}

	logger.Log.Infof("Seed выполнен: %d тендеров, %d компаний", tenderCount, companyCount)
	return nil
}
