package ir

// BulletKind distinguishes literal bullets from auto-numbering.
type BulletKind string

const (
	BulletChar   BulletKind = "char"
	BulletNumber BulletKind = "number"
)

// Bullet describes the list marker of a paragraph.
type Bullet struct {
	Kind       BulletKind `json:"kind"`
	Char       string     `json:"char,omitempty"`        // for BulletChar
	NumberType string     `json:"number_type,omitempty"` // e.g. arabicPeriod, for BulletNumber
	StartAt    int        `json:"start_at,omitempty"`
}

// NewCharBullet creates a literal-character bullet.
func NewCharBullet(ch string) *Bullet {
	return &Bullet{Kind: BulletChar, Char: ch}
}

// NewNumberBullet creates an auto-numbered bullet.
func NewNumberBullet(numberType string) *Bullet {
	if numberType == "" {
		numberType = "arabicPeriod"
	}
	return &Bullet{Kind: BulletNumber, NumberType: numberType}
}

// IsNumbered reports whether the bullet is auto-numbered.
func (b *Bullet) IsNumbered() bool {
	return b != nil && b.Kind == BulletNumber
}
