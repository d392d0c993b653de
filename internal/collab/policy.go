package collab

import "time"

// Policy — единая политика аренд и heartbeat для всех комнат.
type Policy struct {
	// LeaseDuration — срок аренды поля с момента выдачи; renew сдвигает
	// только expires_at.
	LeaseDuration time.Duration
	// HeartbeatTimeout — окно, после которого молчащий участник
	// считается отключившимся.
	HeartbeatTimeout time.Duration
	// SweepInterval — период фоновой уборки (единственная периодическая
	// операция ядра).
	SweepInterval time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		LeaseDuration:    30 * time.Second,
		HeartbeatTimeout: 45 * time.Second,
		SweepInterval:    10 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.LeaseDuration <= 0 {
		p.LeaseDuration = def.LeaseDuration
	}
	if p.HeartbeatTimeout <= 0 {
		p.HeartbeatTimeout = def.HeartbeatTimeout
	}
	if p.SweepInterval <= 0 {
		p.SweepInterval = def.SweepInterval
	}
	return p
}
