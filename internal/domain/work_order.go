package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// WorkOrder (DNI) lives in the main ERP database and is never written here.
type WorkOrder struct {
	ProjectTaskNo string `gorm:"column:project_task_no;type:text" json:"project_task_no"`
	WorkOrderNo   string `gorm:"column:work_order_no;type:text" json:"work_order_no"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	WorkCenter    string `gorm:"column:work_center;type:text" json:"work_center"`
}

func (WorkOrder) TableName() string { return "work_orders" }

type Component struct {
	ProjectTaskNo     string   `gorm:"column:project_task_no;type:text" json:"project_task_no"`
	ItemNo            string   `gorm:"column:item_no;type:text" json:"item_no"`
	Description       string   `gorm:"column:description;type:text" json:"description"`
	Inventory         Quantity `gorm:"column:inventory;type:real" json:"inventory"`
	RemainingQuantity Quantity `gorm:"column:remaining_quantity;type:real" json:"remaining_quantity"`
	WorkCenter        string   `gorm:"column:work_center;type:text" json:"work_center"`
	SifraRegala       string   `gorm:"column:sifra_regala;type:text" json:"sifra_regala"`
}

func (Component) TableName() string { return "components" }

// Quantity is a numeric ERP column that may hold NULL, an empty string or
// text instead of a number. Anything unparsable reads as absent.
type Quantity struct {
	Amount float64
	Valid  bool
}

func NewQuantity(v float64) Quantity { return Quantity{Amount: v, Valid: true} }

// Positive reports whether the quantity is present and greater than zero.
func (q Quantity) Positive() bool { return q.Valid && q.Amount > 0 }

func (q *Quantity) Scan(src any) error {
	*q = Quantity{}
	switch v := src.(type) {
	case nil:
		return nil
	case int64:
		*q = NewQuantity(float64(v))
	case float64:
		*q = NewQuantity(v)
	case []byte:
		q.parse(string(v))
	case string:
		q.parse(v)
	default:
		return fmt.Errorf("unsupported quantity type %T", src)
	}
	return nil
}

func (q *Quantity) parse(s string) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err == nil {
		*q = NewQuantity(f)
	}
}

func (q Quantity) Value() (driver.Value, error) {
	if !q.Valid {
		return nil, nil
	}
	return q.Amount, nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(q.Amount)
}

// MissingPart is a component still awaited from stock.
type MissingPart struct {
	ItemNo      string `gorm:"column:item_no" json:"item_no"`
	Description string `gorm:"column:description" json:"description"`
}

// ArrivedPart is a component already in stock, with its shelf location.
type ArrivedPart struct {
	ItemNo   string `gorm:"column:item_no" json:"item_no"`
	Part     string `gorm:"column:part" json:"part"`
	Location string `gorm:"column:location" json:"location"`
}

// DetailedPart is the public parts page row.
type DetailedPart struct {
	ItemNo         string   `gorm:"column:item_no" json:"item_no"`
	Description    string   `gorm:"column:description" json:"description"`
	SifraRegala    string   `gorm:"column:sifra_regala" json:"sifra_regala"`
	QuantityNeeded Quantity `gorm:"column:quantity_needed" json:"quantity_needed"`
}
