package model

// CoinState mirror of the mutable part of a registry row
type CoinState struct {
	ID int64 `json:"id" gorm:"omitempty; primaryKey;"`

	App      string `json:"app" gorm:"omitempty; not null; default:''; type:varchar(64); uniqueindex:idx_cs_app_ticker;"`
	Ticker   string `json:"ticker" gorm:"omitempty; not null; default:''; type:varchar(32); uniqueindex:idx_cs_app_ticker;"`
	CoinType string `json:"coinType" gorm:"omitempty; not null; default:''; type:varchar(16);"`

	Active  bool `json:"active" gorm:"omitempty; not null; default:false;"`
	Enabled bool `json:"enabled" gorm:"omitempty; not null; default:false;"`
	Checked bool `json:"checked" gorm:"omitempty; not null; default:false;"`

	MsgSeq uint64 `json:"msgSeq" gorm:"omitempty; not null; default:0;"` // nats seq of the last change

	Model
}
