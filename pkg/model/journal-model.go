package model

// JournalEntry one registry journal line as written to mysql by the fm follower
type JournalEntry struct {
	ID int64 `json:"id" gorm:"omitempty; primaryKey;"`

	LogID   int64     `json:"logID" gorm:"omitempty; not null; default:0; uniqueindex:idx_j_log_id;"`
	MsgSeq  uint64    `json:"msgSeq" gorm:"omitempty; not null; default:0;"`
	Ts      int64     `json:"ts" gorm:"omitempty; not null; default:0;"`
	Type    string    `json:"type" gorm:"omitempty; not null; default:''; type:varchar(16);"` // StatusReq, CheckReq
	Tickers GormArray `json:"tickers" gorm:"omitempty;"`
	Value   bool      `json:"value" gorm:"omitempty; not null; default:false;"`
	Rows    int       `json:"rows" gorm:"omitempty; not null; default:0;"` // rows touched in the registry

	Model
}
