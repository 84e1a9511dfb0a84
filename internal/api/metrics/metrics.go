// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts created identities.
// Label:
//   - role: the role chosen at registration ("buyer" or "seller")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of identities created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OTPIssuedTotal counts issued OTP challenges, including resends.
var OTPIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of OTP challenges issued.",
	},
)

// OTPRedeemedTotal counts redemption attempts.
// Label:
//   - result: "success", "invalid", "expired", or "not_found"
var OTPRedeemedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_redeemed_total",
		Help:      "Total number of OTP redemption attempts, by result.",
	},
	[]string{"result"},
)

// OTPRedeemDuration measures end-to-end redemption latency.
var OTPRedeemDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "otp_redeem_duration_seconds",
		Help:      "Duration of OTP redemption from request to response.",
		Buckets:   prometheus.DefBuckets,
	},
)

// CaptchaChecksTotal counts CAPTCHA verifications.
// Label:
//   - result: "success" or "failure"
var CaptchaChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "captcha_checks_total",
		Help:      "Total number of CAPTCHA verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Marketplace metrics ───────────────────────────────────────────────────────

// ProductsCreatedTotal counts new product listings.
// Label:
//   - category: the listing category as submitted
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of product listings created, by category.",
	},
	[]string{"category"},
)

// RequirementsPostedTotal counts posted buyer requirements.
var RequirementsPostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requirements_posted_total",
		Help:      "Total number of sourcing requirements posted.",
	},
)

// InquiriesSentTotal counts inquiries exchanged between accounts.
var InquiriesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inquiries_sent_total",
		Help:      "Total number of inquiries sent to companies.",
	},
)
