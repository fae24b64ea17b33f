package agent

// sqlite models

type Height struct {
	Id     uint64 `gorm:"primary_key" json:"id"`
	Height uint64 `json:"height"`
}

type Proposal struct {
	Address string `gorm:"primary_key" json:"address"`
	Author  string `gorm:"index" json:"author"`
	Payer   string `json:"payer"`
	Uri     string `json:"uri"`
	Hash    string `json:"hash"`
	Bump    uint8  `json:"bump"`
	Height  uint64 `json:"height"`
}

type Vote struct {
	Address  string `gorm:"primary_key" json:"address"`
	Proposal string `gorm:"index" json:"proposal"`
	Voter    string `gorm:"index" json:"voter"`
	Payer    string `json:"payer"`
	Choice   uint8  `json:"choice"`
	Bump     uint8  `json:"bump"`
	Height   uint64 `json:"height"`
}
