package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/snoozelane/formsd/internal/mailtmpl"
	"github.com/snoozelane/formsd/internal/resend"
)

var (
	sendTestTo      string
	sendTestVariant string
)

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Send a test email through Resend",
	Long: `Send one of the production email templates to a real address.

Variants:
  standard  the non-premium welcome email (default)
  premium   the premium welcome email with a sample coupon code
  admin     the contact form admin notification`,
	RunE: runSendTest,
}

func init() {
	sendTestCmd.Flags().StringVar(&sendTestTo, "to", "", "Recipient email address (required)")
	sendTestCmd.Flags().StringVar(&sendTestVariant, "variant", "standard", "Template variant: standard, premium, or admin")
	sendTestCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(sendTestCmd)
}

func runSendTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := resend.NewClient(cfg.Resend.BaseURL, cfg.Resend.APIKey, cfg.Resend.Timeout)
	if !client.Enabled() {
		return fmt.Errorf("RESEND_API_KEY must be set")
	}

	var email *mailtmpl.Email
	from := cfg.Resend.WaitlistFrom
	switch sendTestVariant {
	case "standard":
		email, err = mailtmpl.StandardWelcome(cfg.Waitlist.PremiumLimit, cfg.Waitlist.SiteURL)
	case "premium":
		coupon := fmt.Sprintf("%s-0001", cfg.Waitlist.CouponPrefix)
		email, err = mailtmpl.PremiumWelcome(1, cfg.Waitlist.PremiumLimit, coupon, cfg.Waitlist.SiteURL)
	case "admin":
		from = cfg.Resend.ContactFrom
		email, err = mailtmpl.AdminNotification("Test Sender", sendTestTo,
			"This is a test notification.", time.Now())
	default:
		return fmt.Errorf("unknown variant: %s", sendTestVariant)
	}
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	fmt.Printf("Sending test email...\n")
	fmt.Printf("  From: %s\n", from)
	fmt.Printf("  To: %s\n", sendTestTo)
	fmt.Printf("  Subject: %s\n", email.Subject)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Send(ctx, &resend.Message{
		From:    from,
		To:      []string{sendTestTo},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	fmt.Printf("Test email sent (id: %s)\n", resp.ID)
	return nil
}
