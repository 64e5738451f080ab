// Package model defines the database models, keeping mysql and redis connection instances.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Model struct {
	Status    int8      `json:"status" gorm:"omitempty; not null; type:tinyint; default:1;"`
	CreatedAt time.Time `json:"createdAt" gorm:"omitempty; not null;"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"omitempty; not null;"`
}

// GormArray is a gorm customer datatype, for storing string arrays using json
type GormArray []string

func (a GormArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *GormArray) Scan(input interface{}) error {
	switch v := input.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	}
	return fmt.Errorf("GormArray: unsupported scan type %T", input)
}

func (a GormArray) GormDataType() string {
	return "json"
}

func (a GormArray) Array() []string {
	return []string(a)
}
