package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GroupNamePrefix 由学期开始日期生成命名前缀，如 2025June
func GroupNamePrefix(start time.Time) string {
	return fmt.Sprintf("%d%s", start.Year(), start.Month().String())
}

// NextGroupName 计算前缀下的下一个组名（三位序号）
//
// 序号取 max(同前缀组数, 已用最大序号) + 1：连续序号时等于组数 + 1，
// 中间有组被删除时也不会与现存组名冲突。
func NextGroupName(prefix string, existing []string) string {
	count, highest := 0, 0
	for _, name := range existing {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		count++
		if seq, err := strconv.Atoi(name[len(prefix):]); err == nil && seq > highest {
			highest = seq
		}
	}

	next := count
	if highest > next {
		next = highest
	}
	return fmt.Sprintf("%s%03d", prefix, next+1)
}
