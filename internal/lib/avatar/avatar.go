// Package avatar формирует детерминированную ссылку на аватар
// пользователя по его электронной почте через сервис Gravatar.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// URL возвращает ссылку на gravatar для указанной почты.
// Одна и та же почта всегда дает одну и ту же ссылку.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
