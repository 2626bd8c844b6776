package validate

import (
	"regexp"
	"strings"
)

// 域名字符串格式校验规则
//
// 密码与 pseudo 的字符集沿用注册页约定：
//   - 密码: 12-64 位，允许 \w ! # % * + / _ ~ -
//   - pseudo: 4-64 位，"." 分段，每段为 RFC 5322 atext 子集
//   - 域名: 点分标签，标签为字母数字与中划线，首尾不得为中划线

var (
	passwordRe     = regexp.MustCompile(`^[\w!#%*+/_~-]{12,64}$`)
	pseudoRe       = regexp.MustCompile("^(?:[\\w!#$%&'*+/=?^`{|}~-]+\\.)*[\\w!#$%&'*+/=?^`{|}~-]+$")
	domainRe       = regexp.MustCompile(`^(?:(?:[a-z0-9][a-z0-9-]{0,61})?[a-z0-9]\.)+[a-z0-9][a-z0-9-]{0,61}[a-z0-9]$`)
	maxEmailLength = 512
)

// Password 校验密码格式（12-64 位受限字符集）
func Password(password string) bool {
	return passwordRe.MatchString(password)
}

// Pseudo 校验用户名格式（4-64 位，"." 分段）
func Pseudo(pseudo string) bool {
	return len(pseudo) > 3 && len(pseudo) < 65 && pseudoRe.MatchString(pseudo)
}

// Domain 校验域名格式
func Domain(domain string) bool {
	return domainRe.MatchString(domain)
}

// Email 校验邮箱格式：local 部分按 Pseudo 规则，域名部分按 Domain 规则
func Email(email string) bool {
	if len(email) > maxEmailLength {
		return false
	}

	index := strings.Index(email, "@")
	if index == -1 {
		return false
	}

	return Pseudo(email[:index]) && Domain(email[index+1:])
}
