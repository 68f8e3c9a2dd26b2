package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shop-backend/internal/config"
)

func TestQueuePriorities_Defaults(t *testing.T) {
	cfg := &config.Config{FlashSale: config.FlashSaleConfig{
		EmailQueue:  "default",
		TimerQueue:  "critical",
		NotifyQueue: "high",
		ImportQueue: "low",
	}}

	assert.Equal(t, map[string]int{"critical": 30, "high": 20, "default": 10, "low": 5}, queuePriorities(cfg))
}

func TestQueuePriorities_IncludesRenamedQueues(t *testing.T) {
	cfg := &config.Config{FlashSale: config.FlashSaleConfig{
		EmailQueue:  "mail",
		TimerQueue:  "flashsale-timers",
		NotifyQueue: "high",
		ImportQueue: "imports",
	}}

	prios := queuePriorities(cfg)
	assert.Equal(t, 30, prios["flashsale-timers"])
	assert.Equal(t, 10, prios["mail"])
	assert.Equal(t, 5, prios["imports"])
	// queue mặc định vẫn giữ cho order status email
	assert.Equal(t, 10, prios["default"])
	assert.Equal(t, 30, prios["critical"])
}
