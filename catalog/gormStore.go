package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/udhaar_pos/models"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore is a Catalog backed by MySQL through gorm. Stock and credit writes are
// single conditional UPDATEs, so concurrent writers never drive stock negative.
type GormStore struct {
	db          *gorm.DB
	phoneRegion string
}

func NewGormStore(db *gorm.DB, phoneRegion string) *GormStore {
	return &GormStore{db: db, phoneRegion: phoneRegion}
}

func (s *GormStore) MigrateTable(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.Product{}, &models.Customer{})
}

func (s *GormStore) Transact(ctx context.Context, fn func(w Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, phoneRegion: s.phoneRegion})
	})
}

func (s *GormStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound(models.EntityProduct, id)
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound(models.EntityCustomer, id)
		}
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) DecrementStock(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return models.ErrInvalidQuantity
	}
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, amount).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		p, err := s.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		return models.NewInsufficientStock(id, p.Stock, amount)
	}
	return nil
}

func (s *GormStore) RestoreStock(ctx context.Context, id string, amount int) error {
	if amount <= 0 {
		return models.ErrInvalidQuantity
	}
	return s.addStock(ctx, id, amount)
}

func (s *GormStore) addStock(ctx context.Context, id string, amount int) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFound(models.EntityProduct, id)
	}
	return nil
}

func (s *GormStore) IncreaseCredit(ctx context.Context, customerId string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return models.ErrInvalidAmount
	}
	res := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customerId).
		UpdateColumns(map[string]interface{}{
			"udhaar":     gorm.Expr("udhaar + ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFound(models.EntityCustomer, customerId)
	}
	return nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, input *models.NewProduct) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := models.Product{ID: id, Stock: input.Stock}
	input.Apply(&p)

	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: product %s / sku %s", models.ErrDuplicate, id, p.Sku)
		}
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id string, input *models.NewProduct) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	input.Apply(p)
	// stock is owned by sales and restocking; never overwrite it from an edit
	err = s.db.WithContext(ctx).Model(p).Select("name", "sku", "category", "price", "low_stock_threshold", "barcode").Updates(p).Error
	if err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: sku %s", models.ErrDuplicate, p.Sku)
		}
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *GormStore) ReceiveStock(ctx context.Context, id string, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	if err := s.addStock(ctx, id, qty); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *GormStore) CreateCustomer(ctx context.Context, input *models.NewCustomer) (*models.Customer, error) {
	if err := input.Validate(s.phoneRegion); err != nil {
		return nil, err
	}
	if err := s.validateUniquePhone(ctx, input.Phone, ""); err != nil {
		return nil, err
	}
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	c := models.Customer{ID: id, Udhaar: input.Udhaar}
	input.Apply(&c)

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, fmt.Errorf("%w: customer id %s", models.ErrDuplicate, id)
		}
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) UpdateCustomer(ctx context.Context, id string, input *models.NewCustomer) (*models.Customer, error) {
	if err := input.Validate(s.phoneRegion); err != nil {
		return nil, err
	}
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateUniquePhone(ctx, input.Phone, id); err != nil {
		return nil, err
	}
	input.Apply(c)
	if err := s.db.WithContext(ctx).Model(c).Select("name", "phone", "email").Updates(c).Error; err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, id)
}

func (s *GormStore) SettleCredit(ctx context.Context, customerId string, amount decimal.Decimal) (*models.Customer, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}
	res := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND udhaar >= ?", customerId, amount).
		UpdateColumns(map[string]interface{}{
			"udhaar":     gorm.Expr("udhaar - ?", amount),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetCustomer(ctx, customerId); err != nil {
			return nil, err
		}
		return nil, models.ErrOverSettlement
	}
	return s.GetCustomer(ctx, customerId)
}

func (s *GormStore) validateUniquePhone(ctx context.Context, phone, exceptId string) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Customer{}).Where("phone = ?", phone)
	if exceptId != "" {
		q = q.Where("NOT id = ?", exceptId)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: phone %s", models.ErrDuplicate, phone)
	}
	return nil
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
