package service

import (
	"warbler/internal/model"
	"warbler/internal/pkg"
)

// Notifier 关注请求的邮件通知，未配置 SMTP 时为 nil
type Notifier struct {
	cfg pkg.SMTPConfig
}

func NewNotifier(cfg pkg.SMTPConfig) *Notifier {
	if cfg.Host == "" {
		return nil
	}
	return &Notifier{cfg: cfg}
}

// FollowRequest 通知 recipient 有来自 sender 的关注请求
func (n *Notifier) FollowRequest(recipient, sender *model.User) error {
	html := pkg.FollowRequestHTML(sender.Username)
	return pkg.SendEmail(n.cfg, recipient.Email, "新的关注请求", html)
}
