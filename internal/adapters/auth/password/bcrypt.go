package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes es el límite de entrada de bcrypt; lo que sigue se ignora tanto al
// hashear como al comparar.
const MaxBytes = 72

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(truncate(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify nunca falla ruidosamente: hash corrupto => false.
func (b *Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}

func truncate(password string) []byte {
	p := []byte(password)
	if len(p) > MaxBytes {
		p = p[:MaxBytes]
	}
	return p
}
