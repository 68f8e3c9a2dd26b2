// cmd/report: in báo cáo doanh thu / sản phẩm bán chạy ra terminal
//
//	go run ./cmd/report -from 2026-01-01 -to 2026-01-31 -limit 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"shop-backend/internal/config"
	"shop-backend/internal/domains/report/model"
	"shop-backend/internal/domains/report/repository"
	"shop-backend/internal/domains/report/service"
	"shop-backend/internal/infrastructure/database"
	"shop-backend/pkg/logger"
)

func main() {
	from := flag.String("from", "", "start date (YYYY-MM-DD), default 30 days ago")
	to := flag.String("to", "", "end date (YYYY-MM-DD), default today")
	limit := flag.Int("limit", 10, "number of top products")
	only := flag.String("only", "all", "revenue | top | all")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"))

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	reportService := service.NewReportService(repository.NewPostgresReportRepository(db.Pool))
	req := model.ReportRequest{From: *from, To: *to, Limit: *limit}

	if err := run(ctx, reportService, req, *only); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, reportService service.ReportService, req model.ReportRequest, only string) error {
	switch only {
	case "all", "revenue", "top":
	default:
		return fmt.Errorf("unknown -only value %q", only)
	}

	if only != "top" {
		report, err := reportService.Revenue(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("Revenue %s -> %s\n", report.From, report.To)
		if err := service.WriteRevenueTable(os.Stdout, report); err != nil {
			return err
		}
		fmt.Println()
	}

	if only != "revenue" {
		products, err := reportService.TopProducts(ctx, req)
		if err != nil {
			return err
		}
		fmt.Println("Top products")
		if err := service.WriteTopProductsTable(os.Stdout, products); err != nil {
			return err
		}
	}
	return nil
}
