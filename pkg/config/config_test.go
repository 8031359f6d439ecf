package config

import "testing"

func TestDefaults(t *testing.T) {
	c := New()

	if got := c.GeneratorMethod(); got != 2 {
		t.Errorf("GeneratorMethod() = %d, want 2", got)
	}
	if got := c.Replicas(); got != 100 {
		t.Errorf("Replicas() = %d, want 100", got)
	}
	if got := c.MinGroupSize(); got != 10 {
		t.Errorf("MinGroupSize() = %d, want 10", got)
	}
	if c.Hypergeometric() {
		t.Error("Hypergeometric() default should be false")
	}
	if c.UseFixedSeed() {
		t.Error("UseFixedSeed() default should be false")
	}
}

func TestSetOverridesDefault(t *testing.T) {
	c := New()
	c.Set("generator.replicas", 500)

	if got := c.Replicas(); got != 500 {
		t.Errorf("Replicas() after Set = %d, want 500", got)
	}
	if got := c.MinGroupSize(); got != 10 {
		t.Errorf("MinGroupSize() should be unaffected by unrelated Set, got %d", got)
	}
}

func TestCreateLoggerFallsBackOnBadLevel(t *testing.T) {
	c := New()
	c.Set("logging.level", "not-a-level")

	log := c.CreateLogger()
	if log.GetLevel().String() != "info" {
		t.Errorf("expected fallback to info level, got %s", log.GetLevel())
	}
}
