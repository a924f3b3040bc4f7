package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field names understood by the filter cascade
const (
	FieldName         = "name"
	FieldBranchName   = "branch_name"
	FieldCategoryID   = "category_id"
	FieldCategoryName = "category_name"
	FieldSupplierName = "supplier_name"
)

// Record is one row of an Apps Script sheet, decoded into a typed entity
type Record interface {
	Meta() Base
	// Field returns the string form of a filterable column. ok is false when
	// the entity has no such column.
	Field(name string) (value string, ok bool)
}

// FlexString accepts both JSON strings and numbers. Sheet cells holding ids
// and codes come back as either, depending on how they were typed in.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case data[0] == '{' || data[0] == '[':
		return fmt.Errorf("cannot decode %s into a string cell", data)
	default:
		// numbers and booleans keep their literal form
		*s = FlexString(data)
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexFloat accepts JSON numbers and numeric strings; blank or unparseable
// cells decode to zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var raw FlexString
	if err := raw.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt is the integer counterpart of FlexFloat, used for stock counts
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = FlexInt(int64(f))
	return nil
}

// Base carries the columns every sheet shares. They drive recency ordering.
type Base struct {
	ID        FlexString `json:"id"`
	CreatedAt FlexString `json:"created_at,omitempty"`
	UpdatedAt FlexString `json:"updated_at,omitempty"`
}

func (b Base) Meta() Base {
	return b
}

type Branch struct {
	Base
	Name    FlexString `json:"name"`
	Address FlexString `json:"address,omitempty"`
	Phone   FlexString `json:"phone,omitempty"`
}

func (b Branch) Field(name string) (string, bool) {
	if name == FieldName {
		return b.Name.String(), true
	}
	return "", false
}

type Category struct {
	Base
	Name        FlexString `json:"name"`
	Description FlexString `json:"description,omitempty"`
}

func (c Category) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return c.Name.String(), true
	case FieldCategoryID:
		return c.ID.String(), true
	case FieldCategoryName:
		return c.Name.String(), true
	}
	return "", false
}

type Supplier struct {
	Base
	Name          FlexString `json:"name"`
	ContactPerson FlexString `json:"contact_person,omitempty"`
	Phone         FlexString `json:"phone,omitempty"`
	Email         FlexString `json:"email,omitempty"`
	Address       FlexString `json:"address,omitempty"`
}

func (s Supplier) Field(name string) (string, bool) {
	switch name {
	case FieldName, FieldSupplierName:
		return s.Name.String(), true
	}
	return "", false
}

// Employee is a karyawan account. Credential columns are intentionally not
// mapped, so they never leave the gateway.
type Employee struct {
	Base
	Name       FlexString `json:"name"`
	Email      FlexString `json:"email,omitempty"`
	Phone      FlexString `json:"phone,omitempty"`
	Role       FlexString `json:"role,omitempty"`
	BranchName FlexString `json:"branch_name,omitempty"`
	Status     FlexString `json:"status,omitempty"`
}

func (e Employee) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return e.Name.String(), true
	case FieldBranchName:
		return e.BranchName.String(), true
	}
	return "", false
}

type Product struct {
	Base
	Name          FlexString `json:"name"`
	Barcode       FlexString `json:"barcode,omitempty"`
	Description   FlexString `json:"description,omitempty"`
	Price         FlexFloat  `json:"price"`
	PurchasePrice FlexFloat  `json:"purchase_price,omitempty"`
	Stock         FlexInt    `json:"stock"`
	Sold          FlexInt    `json:"sold"`
	Unit          FlexString `json:"unit,omitempty"`
	ImageURL      FlexString `json:"image_url,omitempty"`
	CategoryID    FlexString `json:"category_id,omitempty"`
	CategoryName  FlexString `json:"category_name,omitempty"`
	SupplierName  FlexString `json:"supplier_name,omitempty"`
	BranchName    FlexString `json:"branch_name,omitempty"`
}

func (p Product) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return p.Name.String(), true
	case FieldBranchName:
		return p.BranchName.String(), true
	case FieldCategoryID:
		return p.CategoryID.String(), true
	case FieldCategoryName:
		return p.CategoryName.String(), true
	case FieldSupplierName:
		return p.SupplierName.String(), true
	}
	return "", false
}

// KaryawanProduct is the narrowed view of a product shown on the employee
// point-of-sale screen. Cost and supplier columns are not part of it.
type KaryawanProduct struct {
	ID           FlexString `json:"id"`
	Price        FlexFloat  `json:"price"`
	Name         FlexString `json:"name"`
	ImageURL     FlexString `json:"image_url"`
	CategoryName FlexString `json:"category_name"`
	Barcode      FlexString `json:"barcode"`
	BranchName   FlexString `json:"branch_name"`
	Unit         FlexString `json:"unit"`
	Sold         FlexInt    `json:"sold"`
	Stock        FlexInt    `json:"stock"`
}

// ForKaryawan projects a product down to the employee allow-list
func (p Product) ForKaryawan() KaryawanProduct {
	return KaryawanProduct{
		ID:           p.ID,
		Price:        p.Price,
		Name:         p.Name,
		ImageURL:     p.ImageURL,
		CategoryName: p.CategoryName,
		Barcode:      p.Barcode,
		BranchName:   p.BranchName,
		Unit:         p.Unit,
		Sold:         p.Sold,
		Stock:        p.Stock,
	}
}

type Transaction struct {
	Base
	InvoiceNumber FlexString      `json:"invoice_number,omitempty"`
	BranchName    FlexString      `json:"branch_name,omitempty"`
	EmployeeName  FlexString      `json:"employee_name,omitempty"`
	CustomerName  FlexString      `json:"customer_name,omitempty"`
	Items         json.RawMessage `json:"items,omitempty"`
	Subtotal      FlexFloat       `json:"subtotal"`
	Discount      FlexFloat       `json:"discount"`
	Total         FlexFloat       `json:"total"`
	PaymentMethod FlexString      `json:"payment_method,omitempty"`
	PaidAmount    FlexFloat       `json:"paid_amount"`
	ChangeAmount  FlexFloat       `json:"change_amount"`
}

func (t Transaction) Field(name string) (string, bool) {
	if name == FieldBranchName {
		return t.BranchName.String(), true
	}
	return "", false
}

// CashLog records money moving in or out of a branch drawer
type CashLog struct {
	Base
	BranchName   FlexString `json:"branch_name,omitempty"`
	Type         FlexString `json:"type"`
	Amount       FlexFloat  `json:"amount"`
	Description  FlexString `json:"description,omitempty"`
	EmployeeName FlexString `json:"employee_name,omitempty"`
}

func (c CashLog) Field(name string) (string, bool) {
	if name == FieldBranchName {
		return c.BranchName.String(), true
	}
	return "", false
}

type ExpenseReport struct {
	Base
	Name         FlexString `json:"name"`
	BranchName   FlexString `json:"branch_name,omitempty"`
	Category     FlexString `json:"category,omitempty"`
	Amount       FlexFloat  `json:"amount"`
	Date         FlexString `json:"date,omitempty"`
	Note         FlexString `json:"note,omitempty"`
	EmployeeName FlexString `json:"employee_name,omitempty"`
}

func (e ExpenseReport) Field(name string) (string, bool) {
	switch name {
	case FieldName:
		return e.Name.String(), true
	case FieldBranchName:
		return e.BranchName.String(), true
	}
	return "", false
}
