package entities

import (
	"database/sql/driver"
	"fmt"

	"github.com/Conte777/NewsFlow/services/feed-service/pkg/dbtype"
)

// Frequency is the per-subscription throttle class
type Frequency int

const (
	FrequencyRealtime Frequency = 0
	FrequencyHourly   Frequency = 1
	FrequencyDaily    Frequency = 2
)

const (
	hourSeconds int64 = 3600
	daySeconds  int64 = 86400
)

// FrequencyFromInt maps a stored integer back to a Frequency
func FrequencyFromInt(v int64) (Frequency, error) {
	switch Frequency(v) {
	case FrequencyRealtime, FrequencyHourly, FrequencyDaily:
		return Frequency(v), nil
	default:
		return FrequencyRealtime, fmt.Errorf("unknown frequency %d", v)
	}
}

// Due reports whether a send is allowed after elapsed seconds since the
// last one. The thresholds are exclusive: exactly one hour is not due.
func (f Frequency) Due(elapsed int64) bool {
	switch f {
	case FrequencyRealtime:
		return true
	case FrequencyHourly:
		return elapsed > hourSeconds
	case FrequencyDaily:
		return elapsed > daySeconds
	default:
		return false
	}
}

// MinInterval is the throttle window in seconds
func (f Frequency) MinInterval() int64 {
	switch f {
	case FrequencyHourly:
		return hourSeconds
	case FrequencyDaily:
		return daySeconds
	default:
		return 0
	}
}

func (f Frequency) String() string {
	switch f {
	case FrequencyRealtime:
		return "realtime"
	case FrequencyHourly:
		return "hourly"
	case FrequencyDaily:
		return "daily"
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}

// Scan implements sql.Scanner
func (f *Frequency) Scan(src any) error {
	v, err := dbtype.Int64(src)
	if err != nil {
		return err
	}
	freq, err := FrequencyFromInt(v)
	if err != nil {
		return err
	}
	*f = freq
	return nil
}

// Value implements driver.Valuer
func (f Frequency) Value() (driver.Value, error) {
	return int64(f), nil
}

// DeliveryMethod selects the channels a subscription is routed to
type DeliveryMethod int

const (
	DeliveryTelegramOnly DeliveryMethod = 0
	DeliveryEmailOnly    DeliveryMethod = 1
	DeliveryBoth         DeliveryMethod = 2
)

// DeliveryMethodFromInt maps a stored integer back to a DeliveryMethod
func DeliveryMethodFromInt(v int64) (DeliveryMethod, error) {
	switch DeliveryMethod(v) {
	case DeliveryTelegramOnly, DeliveryEmailOnly, DeliveryBoth:
		return DeliveryMethod(v), nil
	default:
		return DeliveryTelegramOnly, fmt.Errorf("unknown delivery method %d", v)
	}
}

// Includes reports whether the method routes to channel
func (m DeliveryMethod) Includes(channel Channel) bool {
	switch channel {
	case ChannelEmail:
		return m == DeliveryEmailOnly || m == DeliveryBoth
	case ChannelTelegram:
		return m == DeliveryTelegramOnly || m == DeliveryBoth
	default:
		return false
	}
}

// MethodsFor returns the delivery methods that route to channel
func MethodsFor(channel Channel) []DeliveryMethod {
	switch channel {
	case ChannelEmail:
		return []DeliveryMethod{DeliveryEmailOnly, DeliveryBoth}
	case ChannelTelegram:
		return []DeliveryMethod{DeliveryTelegramOnly, DeliveryBoth}
	default:
		return nil
	}
}

func (m DeliveryMethod) String() string {
	switch m {
	case DeliveryTelegramOnly:
		return "telegram_only"
	case DeliveryEmailOnly:
		return "email_only"
	case DeliveryBoth:
		return "both"
	default:
		return fmt.Sprintf("delivery_method(%d)", int(m))
	}
}

// Scan implements sql.Scanner
func (m *DeliveryMethod) Scan(src any) error {
	v, err := dbtype.Int64(src)
	if err != nil {
		return err
	}
	dm, err := DeliveryMethodFromInt(v)
	if err != nil {
		return err
	}
	*m = dm
	return nil
}

// Value implements driver.Valuer
func (m DeliveryMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

// Channel is an outbound delivery channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// User is the recipient side of subscriptions
type User struct {
	ID             uint    `gorm:"primaryKey"`
	Email          string  `gorm:"column:email;not null;uniqueIndex"`
	TelegramChatID *string `gorm:"column:telegram_chat_id"`
	IsActive       bool    `gorm:"column:is_active;not null;default:true"`
}

func (User) TableName() string {
	return "users"
}

// Subscription links a user to a feed. LastSentTime is the watermark:
// an item is new iff its pub_date is greater.
type Subscription struct {
	ID             uint           `gorm:"primaryKey"`
	UserID         uint           `gorm:"column:user_id;not null;index"`
	FeedID         uint           `gorm:"column:feed_id;not null;index"`
	FriendlyName   string         `gorm:"column:friendly_name;not null;default:''"`
	Frequency      Frequency      `gorm:"column:frequency;not null;default:0"`
	LastSentTime   int64          `gorm:"column:last_sent_time;not null;default:0"`
	MaxItems       int            `gorm:"column:max_items;not null;default:0"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	DeliveryMethod DeliveryMethod `gorm:"column:delivery_method;not null;default:0"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Due reports whether the subscription may be sent at now (unix seconds)
func (s *Subscription) Due(now int64) bool {
	return s.Frequency.Due(now - s.LastSentTime)
}

// NextEligible is the earliest unix time at which the subscription is due
func (s *Subscription) NextEligible() int64 {
	if s.Frequency == FrequencyRealtime {
		return s.LastSentTime
	}
	return s.LastSentTime + s.Frequency.MinInterval() + 1
}

// PartialSubscription holds subscription fields to change.
// IfLastSentTime turns the update into a compare-and-set on the watermark.
type PartialSubscription struct {
	FriendlyName   *string
	Frequency      *Frequency
	LastSentTime   *int64
	MaxItems       *int
	IsActive       *bool
	IfLastSentTime *int64
}

// Columns returns the set fields keyed by column name
func (p *PartialSubscription) Columns() map[string]any {
	cols := make(map[string]any)
	if p == nil {
		return cols
	}
	if p.FriendlyName != nil {
		cols["friendly_name"] = *p.FriendlyName
	}
	if p.Frequency != nil {
		cols["frequency"] = *p.Frequency
	}
	if p.LastSentTime != nil {
		cols["last_sent_time"] = *p.LastSentTime
	}
	if p.MaxItems != nil {
		cols["max_items"] = *p.MaxItems
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}

// EmailConfig is a user's SMTP account. SMTPPassword is ciphertext.
type EmailConfig struct {
	ID           uint    `gorm:"primaryKey"`
	UserID       uint    `gorm:"column:user_id;not null;uniqueIndex"`
	SMTPHost     string  `gorm:"column:smtp_host;not null"`
	SMTPPort     int     `gorm:"column:smtp_port;not null"`
	SMTPUsername string  `gorm:"column:smtp_username;not null"`
	SMTPPassword string  `gorm:"column:smtp_password;not null"`
	SMTPUseTLS   bool    `gorm:"column:smtp_use_tls;not null;default:true"`
	FromEmail    string  `gorm:"column:from_email;not null"`
	FromName     *string `gorm:"column:from_name"`
	IsActive     bool    `gorm:"column:is_active;not null;default:true"`
	CreatedAt    int64   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    int64   `gorm:"column:updated_at;autoUpdateTime"`
}

func (EmailConfig) TableName() string {
	return "email_configs"
}

// Setting is a runtime key/value, global when UserID is nil
type Setting struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"column:user_id;index"`
	Key       string `gorm:"column:key;not null;index"`
	Value     string `gorm:"column:value;not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys read by the Telegram pipeline
const (
	SettingTelegramBotToken   = "telegram_bot_token"
	SettingTelegramAPIBaseURL = "telegram_api_base_url"
)
