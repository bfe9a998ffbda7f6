// Command seed fills a development database with customers, stock, sales and payments.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sangkips/garage-pos-api/internal/application/service"
	"github.com/sangkips/garage-pos-api/internal/config"
	"github.com/sangkips/garage-pos-api/internal/domain/event"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/database"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/logger"
	"github.com/sangkips/garage-pos-api/internal/infrastructure/repository"
	"go.uber.org/zap"
)

const seedUser = "seed"

var (
	oilBrands = []string{"Castrol", "Shell", "Mobil", "Motul", "Servo", "Gulf", "Valvoline"}
	oilGrades = []string{"10W-30", "10W-40", "15W-40", "20W-40", "20W-50", "5W-30"}
	volumes   = []float64{500, 900, 1000, 1200, 3500, 5000}
	methods   = []string{"cash", "upi", "card", "bank"}
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, event.Change) error { return nil }

func main() {
	customers := flag.Int("customers", 20, "number of customers")
	items := flag.Int("items", 30, "number of inventory items")
	sales := flag.Int("sales", 60, "number of sales")
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl := logger.NewForEnvironment(cfg.App.Env, cfg.Logger.Level)
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(&cfg.Database, zl, "warn")
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to run migrations", zap.Error(err))
	}

	deps := service.Deps{Logger: zl, Publisher: noopPublisher{}}
	customerRepo := repository.NewCustomerRepository(db)
	store := repository.NewStore(db)

	customerService := service.NewCustomerService(deps, customerRepo, repository.NewSaleRepository(db), repository.NewPaymentRepository(db))
	inventoryService := service.NewInventoryService(deps, repository.NewInventoryRepository(db), store, service.InventoryOptions{
		LowStockThreshold: cfg.Inventory.LowStockThreshold,
		ImportMaxRows:     cfg.Inventory.ImportMaxRows,
	})
	saleService := service.NewSaleService(deps, repository.NewSaleRepository(db), customerRepo, store, false)
	paymentService := service.NewPaymentService(deps, customerRepo, store)

	f := gofakeit.New(*seed)
	ctx := context.Background()

	customerIDs := make([]string, 0, *customers)
	for range *customers {
		phone := f.Phone()
		email := f.Email()
		address := f.Address().Address
		res, err := customerService.AddCustomer(ctx, service.AddCustomerInput{
			Name:    f.Name(),
			Phone:   &phone,
			Email:   &email,
			Address: &address,
		})
		if err != nil {
			zl.Fatal("failed to add customer", zap.Error(err))
		}
		customerIDs = append(customerIDs, res.ID)
	}

	type stocked struct {
		id    string
		price float64
	}
	stock := make([]stocked, 0, *items)
	for i := range *items {
		purchase := round2(f.Float64Range(150, 2500))
		selling := round2(purchase * f.Float64Range(1.1, 1.4))
		quantity := f.IntRange(0, 40)
		res, err := inventoryService.AddInventoryItem(ctx, service.InventoryItemInput{
			Brand:         f.RandomString(oilBrands),
			Name:          fmt.Sprintf("%s %s #%d", f.RandomString(oilGrades), f.Adjective(), i+1),
			VolumeMl:      volumes[f.IntRange(0, len(volumes)-1)],
			Quantity:      &quantity,
			PurchasePrice: &purchase,
			SellingPrice:  &selling,
		})
		if err != nil {
			zl.Fatal("failed to add inventory item", zap.Error(err))
		}
		stock = append(stock, stocked{id: res.ID, price: selling})
	}

	if len(customerIDs) == 0 || len(stock) == 0 {
		zl.Info("seed complete", zap.Int("customers", len(customerIDs)), zap.Int("items", len(stock)))
		return
	}

	var salesAdded, paymentsAdded int
	for range *sales {
		customerID := customerIDs[f.IntRange(0, len(customerIDs)-1)]
		lines := make([]service.SaleLineInput, 0, 3)
		for range f.IntRange(1, 3) {
			item := stock[f.IntRange(0, len(stock)-1)]
			price := item.price
			lines = append(lines, service.SaleLineInput{ItemID: item.id, Quantity: f.IntRange(1, 4), Price: &price})
		}

		input := service.CreateSaleInput{CustomerID: customerID, Lines: lines}
		if f.Bool() {
			paid := round2(f.Float64Range(0, 2000))
			input.PaidAmount = &paid
		}
		if _, err := saleService.AddSale(ctx, seedUser, input); err != nil {
			zl.Warn("skipped sale", zap.Error(err))
			continue
		}
		salesAdded++

		if f.IntRange(0, 3) == 0 {
			amount := round2(f.Float64Range(100, 1500))
			if _, err := paymentService.RecordPayment(ctx, seedUser, service.RecordPaymentInput{
				CustomerID: customerID,
				Amount:     &amount,
				Method:     f.RandomString(methods),
			}); err != nil {
				zl.Warn("skipped payment", zap.Error(err))
				continue
			}
			paymentsAdded++
		}
	}

	zl.Info("seed complete",
		zap.Int("customers", len(customerIDs)),
		zap.Int("items", len(stock)),
		zap.Int("sales", salesAdded),
		zap.Int("payments", paymentsAdded),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
