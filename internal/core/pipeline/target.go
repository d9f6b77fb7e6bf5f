package pipeline

import (
	"bufio"
	"os"
	"strings"

	"neorecon/internal/pkg/logger"
)

// GenerateTargets 目标生成器
// 将用户输入 (域名, 逗号列表, 文件) 转换为流式的目标通道
func GenerateTargets(input string) <-chan string {
	out := make(chan string, 100) // 带缓冲的 Channel

	go func() {
		defer close(out)

		// 1. 尝试作为文件读取
		if _, err := os.Stat(input); err == nil {
			file, err := os.Open(input)
			if err == nil {
				defer file.Close()
				scanner := bufio.NewScanner(file)
				for scanner.Scan() {
					line := strings.TrimSpace(scanner.Text())
					if line != "" {
						parseAndSend(line, out)
					}
				}
				return
			}
		}

		// 2. 尝试作为逗号分隔的列表
		if strings.Contains(input, ",") {
			parts := strings.Split(input, ",")
			for _, part := range parts {
				parseAndSend(strings.TrimSpace(part), out)
			}
			return
		}

		// 3. 处理单个条目 (域名或 URL)
		parseAndSend(input, out)
	}()

	return out
}

func parseAndSend(target string, out chan<- string) {
	// 忽略空行和注释
	if target == "" || strings.HasPrefix(target, "#") {
		return
	}

	// 域名或 URL 均可，主机名解析交给扫描器
	if strings.ContainsAny(target, " \t") {
		logger.Warnf("Skipping invalid target: %s", target)
		return
	}

	out <- target
}
