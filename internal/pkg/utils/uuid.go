// UUID生成工具
package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// GenerateUUID 生成标准的UUID v4字符串
// 格式：xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func GenerateUUID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// 设置版本号 (4) 和变体位
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}

// GenerateSimpleUUID 生成UUID，失败时返回空字符串
// 适用于不需要错误处理的场景
func GenerateSimpleUUID() string {
	uuid, err := GenerateUUID()
	if err != nil {
		return ""
	}
	return uuid
}

// GenerateUUIDWithPrefix 生成带前缀的UUID
// 例如：task-xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func GenerateUUIDWithPrefix(prefix string) (string, error) {
	uuid, err := GenerateUUID()
	if err != nil {
		return "", err
	}
	if prefix == "" {
		return uuid, nil
	}
	return prefix + "-" + uuid, nil
}

// GenerateShortUUID 生成不带连字符的短UUID
func GenerateShortUUID() (string, error) {
	uuid, err := GenerateUUID()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(uuid, "-", ""), nil
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID 校验字符串是否为合法的UUID格式
func IsValidUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
