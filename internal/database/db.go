package database

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storehub/internal/model"
	"storehub/internal/tenancy"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Tenant{},
		&model.TenantUser{},
		&model.Store{},
		&model.StoreUser{},
		&model.Role{},
		&model.Permission{},
		&model.RolePermission{},
		&model.UserRole{},
		&model.Plan{},
		&model.Subscription{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// SyncPermissions upserts the in-code permission registry into the catalog
// table so role grants always reference current definitions.
func SyncPermissions(db *gorm.DB) error {
	for _, def := range tenancy.AllPermissions() {
		perm := model.Permission{
			Name:        def.Name,
			Resource:    def.Resource,
			Action:      def.Action,
			Description: def.Description,
		}
		err := db.Where("name = ?", def.Name).
			Assign(model.Permission{
				Resource:    def.Resource,
				Action:      def.Action,
				Description: def.Description,
			}).
			FirstOrCreate(&perm).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedPlans inserts the default plan catalog when it is empty.
func SeedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	five := 5
	three := 3
	twenty := 20
	ten := 10

	plans := []model.Plan{
		{
			Slug:         "free",
			Name:         "Free",
			PriceMonthly: decimal.Zero,
			PriceYearly:  decimal.Zero,
			MaxUsers:     &five,
			MaxStores:    &three,
			IsActive:     true,
		},
		{
			Slug:         "standard",
			Name:         "Standard",
			PriceMonthly: decimal.NewFromFloat(29.99),
			PriceYearly:  decimal.NewFromFloat(299.99),
			MaxUsers:     &twenty,
			MaxStores:    &ten,
			IsActive:     true,
		},
		{
			Slug:         "premium",
			Name:         "Premium",
			PriceMonthly: decimal.NewFromFloat(99.99),
			PriceYearly:  decimal.NewFromFloat(999.99),
			IsActive:     true,
		},
	}
	return db.Create(&plans).Error
}
