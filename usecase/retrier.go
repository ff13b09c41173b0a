package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"social-publisher/domain/model"
	"social-publisher/infrastructure/logger"
)

// RetryPolicy bounds the retry loop for one platform.
type RetryPolicy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	BackoffFactor float64
}

// PublishOp is one publish attempt. A non-nil error and a result with status
// "error" both count as a failed attempt.
type PublishOp func() (model.PublishResult, error)

// Retrier runs publish operations with exponential backoff. Manual-action
// results are terminal and never retried.
type Retrier struct {
	sleep func(time.Duration)
}

func NewRetrier() *Retrier {
	return &Retrier{sleep: time.Sleep}
}

// Do runs op up to policy.MaxAttempts times. On exhaustion the returned
// result message states how many attempts were made.
func (r *Retrier) Do(platform model.Platform, policy RetryPolicy, op PublishOp) model.PublishResult {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	delay := policy.InitialDelay

	var last model.PublishResult
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		logger.GetLogger().WithFields(logrus.Fields{
			"platform":     platform,
			"attempt":      attempt,
			"max_attempts": policy.MaxAttempts,
		}).Info("Publish attempt")

		result, err := op()
		if err == nil && !result.Failed() {
			if attempt > 1 {
				logger.GetLogger().WithFields(logrus.Fields{
					"platform": platform,
					"attempt":  attempt,
				}).Info("Publish succeeded after retry")
			}
			return result
		}
		last, lastErr = result, err

		message := result.Message
		if err != nil {
			message = err.Error()
		}
		if attempt < policy.MaxAttempts {
			logger.GetLogger().WithFields(logrus.Fields{
				"platform": platform,
				"attempt":  attempt,
				"message":  message,
				"delay":    delay.String(),
			}).Warn("Publish attempt failed, retrying")
			r.sleep(delay)
			delay = time.Duration(float64(delay) * policy.BackoffFactor)
		}
	}

	logger.GetLogger().WithFields(logrus.Fields{
		"platform":     platform,
		"max_attempts": policy.MaxAttempts,
	}).Error("All publish attempts failed")

	if lastErr != nil {
		return model.ErrorResult(platform,
			fmt.Sprintf("Error despues de %d intentos: %v", policy.MaxAttempts, lastErr))
	}
	last.Message = fmt.Sprintf("Error despues de %d intentos: %s", policy.MaxAttempts, last.Message)
	return last
}
