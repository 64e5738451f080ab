package model

// Lastkv model
//
// Used to record some values per app, e.g. the latest seq of nats messages mirrored by a registry,
// or the latest journal log id written to mysql by the fm follower.
type Lastkv struct {
	ID int64 `json:"id" gorm:"omitempty; primaryKey;"`

	App string `json:"app" gorm:"omitempty; not null; default:''; type:varchar(64); uniqueindex:idx_app_key;"` // e.g registry_main
	Key string `json:"key" gorm:"omitempty; not null; default:''; type:varchar(64); uniqueindex:idx_app_key;"` // e.g nats_seq, saved_log_id
	Val int64  `json:"val" gorm:"omitempty; not null; default:0;"`

	Model
}

const (
	LASTKV_K_NATS_SEQ     = "nats_seq"
	LASTKV_K_SAVED_LOG_ID = "saved_log_id"
)
