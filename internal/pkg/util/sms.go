package util

import (
	"Glycora/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const smsSuccessResp = "0"

// SmsSender 短信发送抽象，便于测试替换
type SmsSender interface {
	Send(ctx context.Context, phone string, content string) error
}

type gatewaySmsSender struct{}

func NewSmsSender() SmsSender {
	return &gatewaySmsSender{}
}

func (s *gatewaySmsSender) Send(_ context.Context, phone string, content string) error {
	return SendSms(phone, content)
}

// SendSms 调用短信网关下发一条通知短信
func SendSms(phone string, content string) error {
	smsCfg := config.Cfg.SMS

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"u": smsCfg.Username,
			"p": smsCfg.ApiKey,
			"m": phone,
			"c": fmt.Sprintf("【Glycora】%s", content),
		}).
		Get(smsCfg.URL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("sms send failed: %s", resp.Status())
	}
	if string(resp.Body()) != smsSuccessResp {
		return fmt.Errorf("sms send failed: response code %s", string(resp.Body()))
	}

	log.Info("短信已发出", "phone", phone)
	return nil
}
