package testdata

import "github.com/tinywasm/bitorm/bitstring"

type Slot struct {
	ID       int64              `db:"pk,autoincrement"`
	Label    string             `db:"not_null"`
	Schedule bitstring.Bits     `db:"bits=8,not_null,default=0x00"`
	Flags    bitstring.NullBits `db:"varbits=16"`
	OwnerID  int64              `db:"ref=owners:id"`
	Events   chan int
	Scratch  string `db:"-"`
	internal int
}

type Owner struct {
	ID   int64
	Name string `db:"unique"`
}

func (Owner) TableName() string { return "owners" }

type BadAutoInc struct {
	ID string `db:"autoincrement"`
}

type BadBits struct {
	Name string `db:"bits=8"`
}

type BadDefault struct {
	Mask bitstring.Bits `db:"bits=4,default=0xff"`
}

type BadLength struct {
	Mask bitstring.Bits `db:"bits=zero"`
}
