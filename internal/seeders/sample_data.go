package seeders

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medsupply-service/internal/models"
	"medsupply-service/internal/services"
)

var sampleDistributors = []models.Distributor{
	{
		Code:              "DIST-001",
		Name:              "Apollo Pharmacy Distribution Hub",
		Address:           "0x742d35Cc6634C0532925a3b8D4C9db96C4b4d8b6",
		Location:          "Jubilee Hills, Hyderabad",
		Latitude:          17.4326,
		Longitude:         78.4071,
		Distance:          2.8,
		EstimatedDelivery: "1.5 hours",
		Available:         true,
		Rating:            4.9,
		Specialization:    "Multi-specialty medications",
		Inventory: models.DrugQuantities{
			"Paracetamol 500mg":         8000,
			"Amoxicillin 250mg":         4500,
			"Insulin Glargine 100IU/ml": 1200,
			"Metformin 500mg":           3500,
			"Aspirin 75mg":              6000,
		},
		Pricing: models.DrugPrices{
			"Paracetamol 500mg":         0.12,
			"Amoxicillin 250mg":         0.38,
			"Insulin Glargine 100IU/ml": 11.25,
			"Metformin 500mg":           0.28,
			"Aspirin 75mg":              0.08,
		},
		Advantages: []string{"24/7 service", "Premium quality", "Fast delivery"},
	},
	{
		Code:              "DIST-002",
		Name:              "Mediplus Pharma Networks",
		Address:           "0x8ba1f109551bD432803012645Hac136c300cc22d",
		Location:          "Banjara Hills, Hyderabad",
		Latitude:          17.4065,
		Longitude:         78.4691,
		Distance:          4.2,
		EstimatedDelivery: "2 hours",
		Available:         true,
		Rating:            4.7,
		Specialization:    "Bulk pharmaceutical supply",
		Inventory: models.DrugQuantities{
			"Paracetamol 500mg":         5500,
			"Amoxicillin 250mg":         3200,
			"Insulin Glargine 100IU/ml": 800,
			"Metformin 500mg":           2800,
			"Aspirin 75mg":              4200,
		},
		Pricing: models.DrugPrices{
			"Paracetamol 500mg":         0.10,
			"Amoxicillin 250mg":         0.42,
			"Insulin Glargine 100IU/ml": 12.80,
			"Metformin 500mg":           0.25,
			"Aspirin 75mg":              0.09,
		},
		Advantages: []string{"Competitive pricing", "Bulk discounts", "Reliable supply"},
	},
	{
		Code:              "DIST-003",
		Name:              "ColdChain MedSupply Hyderabad",
		Address:           "0x1CBd3b2770909D4e10f157cABC84C7264073C9Ec",
		Location:          "Hi-Tech City, Hyderabad",
		Latitude:          17.4475,
		Longitude:         78.3563,
		Distance:          6.1,
		EstimatedDelivery: "2.5 hours",
		Available:         true,
		Rating:            4.8,
		Specialization:    "Cold chain & temperature-sensitive medications",
		Inventory: models.DrugQuantities{
			"Paracetamol 500mg":         7200,
			"Amoxicillin 250mg":         5100,
			"Insulin Glargine 100IU/ml": 1800,
			"Metformin 500mg":           4100,
			"Aspirin 75mg":              5800,
		},
		Pricing: models.DrugPrices{
			"Paracetamol 500mg":         0.15,
			"Amoxicillin 250mg":         0.36,
			"Insulin Glargine 100IU/ml": 10.95,
			"Metformin 500mg":           0.30,
			"Aspirin 75mg":              0.07,
		},
		Advantages: []string{"Cold chain expertise", "Temperature monitoring", "Insulin specialists"},
	},
	{
		Code:              "DIST-004",
		Name:              "Hetero Drugs Distribution",
		Address:           "0x4B20993Bc481177ec7E8f571ceCaE8A9e22C02db",
		Location:          "HITEC City, Hyderabad",
		Latitude:          17.4435,
		Longitude:         78.3772,
		Distance:          5.8,
		EstimatedDelivery: "2.5 hours",
		Available:         true,
		Rating:            4.6,
		Specialization:    "Generic medications & antibiotics",
		Inventory: models.DrugQuantities{
			"Paracetamol 500mg":         6800,
			"Amoxicillin 250mg":         6500,
			"Insulin Glargine 100IU/ml": 950,
			"Metformin 500mg":           5200,
			"Aspirin 75mg":              7100,
		},
		Pricing: models.DrugPrices{
			"Paracetamol 500mg":         0.13,
			"Amoxicillin 250mg":         0.34,
			"Insulin Glargine 100IU/ml": 12.50,
			"Metformin 500mg":           0.27,
			"Aspirin 75mg":              0.08,
		},
		Advantages: []string{"Generic specialists", "Large inventory", "Antibiotic expertise"},
	},
	{
		Code:              "DIST-005",
		Name:              "Dr Reddys Pharma Hub",
		Address:           "0x78731D3Ca6b7E34aC0F824c42a7cC18A495cabaB",
		Location:          "Miyapur, Hyderabad",
		Latitude:          17.4969,
		Longitude:         78.3428,
		Distance:          8.9,
		EstimatedDelivery: "3 hours",
		Available:         true,
		Rating:            4.5,
		Specialization:    "Branded & research medications",
		Inventory: models.DrugQuantities{
			"Paracetamol 500mg":         4200,
			"Amoxicillin 250mg":         2800,
			"Insulin Glargine 100IU/ml": 1500,
			"Metformin 500mg":           6200,
			"Aspirin 75mg":              8500,
		},
		Pricing: models.DrugPrices{
			"Paracetamol 500mg":         0.14,
			"Amoxicillin 250mg":         0.40,
			"Insulin Glargine 100IU/ml": 11.80,
			"Metformin 500mg":           0.24,
			"Aspirin 75mg":              0.075,
		},
		Advantages: []string{"Research-grade quality", "Branded medications", "Long-term partnership"},
	},
}

type sampleLowStock struct {
	level            models.StockLevel
	recommendedOrder int
	priority         models.StockPriority
	lastOrderedDays  int
	scores           map[string]int // distributor code -> score
}

var sampleLowStockItems = []sampleLowStock{
	{
		level:            models.StockLevel{DrugName: "Paracetamol 500mg", CurrentStock: 45, MinimumRequired: 200, CriticalLevel: 50, MonthlyUsage: 180},
		recommendedOrder: 500,
		priority:         models.StockPriorityHigh,
		lastOrderedDays:  28,
		scores:           map[string]int{"DIST-001": 92, "DIST-002": 95, "DIST-003": 82, "DIST-004": 85, "DIST-005": 88},
	},
	{
		level:            models.StockLevel{DrugName: "Insulin Glargine 100IU/ml", CurrentStock: 12, MinimumRequired: 50, CriticalLevel: 20, MonthlyUsage: 45},
		recommendedOrder: 120,
		priority:         models.StockPriorityCritical,
		lastOrderedDays:  42,
		scores:           map[string]int{"DIST-001": 90, "DIST-002": 80, "DIST-003": 98, "DIST-004": 78, "DIST-005": 85},
	},
	{
		level:            models.StockLevel{DrugName: "Amoxicillin 250mg", CurrentStock: 95, MinimumRequired: 200, CriticalLevel: 100, MonthlyUsage: 160},
		recommendedOrder: 400,
		priority:         models.StockPriorityMedium,
		lastOrderedDays:  35,
		scores:           map[string]int{"DIST-001": 85, "DIST-002": 82, "DIST-003": 88, "DIST-004": 94, "DIST-005": 80},
	},
	{
		level:            models.StockLevel{DrugName: "Metformin 500mg", CurrentStock: 78, MinimumRequired: 150, CriticalLevel: 80, MonthlyUsage: 140},
		recommendedOrder: 350,
		priority:         models.StockPriorityMedium,
		lastOrderedDays:  25,
		scores:           map[string]int{"DIST-001": 87, "DIST-002": 93, "DIST-003": 81, "DIST-004": 84, "DIST-005": 90},
	},
	{
		level:            models.StockLevel{DrugName: "Aspirin 75mg", CurrentStock: 220, MinimumRequired: 300, CriticalLevel: 250, MonthlyUsage: 200},
		recommendedOrder: 600,
		priority:         models.StockPriorityLow,
		lastOrderedDays:  15,
		scores:           map[string]int{"DIST-001": 86, "DIST-002": 81, "DIST-003": 91, "DIST-004": 84, "DIST-005": 89},
	},
}

// sampleCandidates lists the catalog in code order with the demo scores and
// marks the best one optimized
func sampleCandidates(scores map[string]int, ids map[string]models.Distributor) models.Candidates {
	candidates := make([]models.DistributorCandidate, 0, len(sampleDistributors))
	for _, d := range sampleDistributors {
		candidates = append(candidates, models.DistributorCandidate{
			DistributorID: ids[d.Code].ID,
			Score:         scores[d.Code],
		})
	}
	return services.MarkOptimized(candidates)
}

func sampleHospitalRequests(tenantID string, now time.Time) []models.HospitalRequest {
	ago := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	return []models.HospitalRequest{
		{TenantID: tenantID, HospitalName: "Rural Health Center", Location: "Rural Tamil Nadu", Type: models.FacilityTypeRural, DrugName: "Paracetamol 500mg", Quantity: 200, Urgency: models.UrgencyHigh, Distance: 150, Timestamp: ago(30 * time.Minute)},
		{TenantID: tenantID, HospitalName: "Apollo Hospitals", Location: "Chennai, TN", Type: models.FacilityTypeUrban, DrugName: "Insulin Glargine", Quantity: 100, Urgency: models.UrgencyMedium, Distance: 50, Timestamp: ago(time.Hour)},
		{TenantID: tenantID, HospitalName: "Rural Medical Center", Location: "Rural Karnataka", Type: models.FacilityTypeRural, DrugName: "Amoxicillin 250mg", Quantity: 150, Urgency: models.UrgencyMedium, Distance: 200, Timestamp: ago(90 * time.Minute)},
		{TenantID: tenantID, HospitalName: "City General Hospital", Location: "Bangalore, KA", Type: models.FacilityTypeUrban, DrugName: "Covishield Vaccine", Quantity: 300, Urgency: models.UrgencyHigh, Distance: 75, Timestamp: ago(2 * time.Hour)},
	}
}

// SeedSampleData loads the Hyderabad demo catalog, hospital requests and
// low-stock items for a tenant. Distributors and stock levels are upserted;
// requests and low-stock items are only created when the tenant has none.
func SeedSampleData(db *gorm.DB, tenantID string, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{"component": "seeder", "tenantId": tenantID})
	now := time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]models.Distributor, len(sampleDistributors))
		for _, sample := range sampleDistributors {
			distributor := sample
			distributor.TenantID = tenantID
			result := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "tenant_id"}, {Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "address", "location", "latitude", "longitude", "distance",
					"estimated_delivery", "available", "rating", "specialization",
					"inventory", "pricing", "advantages", "updated_at",
				}),
			}).Create(&distributor)
			if result.Error != nil {
				log.WithError(result.Error).Errorf("Failed to seed distributor %s", sample.Code)
				return result.Error
			}

			var stored models.Distributor
			if err := tx.Where("tenant_id = ? AND code = ?", tenantID, sample.Code).First(&stored).Error; err != nil {
				return err
			}
			ids[sample.Code] = stored
		}
		log.Infof("Seeded %d distributors", len(ids))

		var pending int64
		if err := tx.Model(&models.HospitalRequest{}).Where("tenant_id = ?", tenantID).Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			requests := sampleHospitalRequests(tenantID, now)
			if err := tx.Create(&requests).Error; err != nil {
				log.WithError(err).Error("Failed to seed hospital requests")
				return err
			}
			log.Infof("Seeded %d hospital requests", len(requests))
		}

		var lowStock int64
		if err := tx.Model(&models.LowStockItem{}).Where("tenant_id = ?", tenantID).Count(&lowStock).Error; err != nil {
			return err
		}

		for _, sample := range sampleLowStockItems {
			lastOrdered := now.AddDate(0, 0, -sample.lastOrderedDays)

			level := sample.level
			level.TenantID = tenantID
			level.LastOrderedAt = &lastOrdered
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "drug_name"}},
				DoNothing: true,
			}).Create(&level).Error; err != nil {
				return err
			}

			if lowStock > 0 {
				continue
			}

			item := models.LowStockItem{
				TenantID:         tenantID,
				DrugName:         level.DrugName,
				CurrentStock:     level.CurrentStock,
				MinimumRequired:  level.MinimumRequired,
				RecommendedOrder: sample.recommendedOrder,
				Priority:         sample.priority,
				MonthlyUsage:     level.MonthlyUsage,
				CriticalLevel:    level.CriticalLevel,
				LastOrderedAt:    &lastOrdered,
				Candidates:       sampleCandidates(sample.scores, ids),
			}
			if err := tx.Create(&item).Error; err != nil {
				log.WithError(err).Errorf("Failed to seed low-stock item %s", level.DrugName)
				return err
			}
		}
		if lowStock == 0 {
			log.Infof("Seeded %d low-stock items", len(sampleLowStockItems))
		}

		return nil
	})
}
