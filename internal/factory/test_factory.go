package factory

import (
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/mocks"
	historymemory "github.com/mcoot/wordchain-go/internal/history/memory"
	"github.com/mcoot/wordchain-go/internal/storage/memory"
	"github.com/mcoot/wordchain-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig creates a test App with custom rules
func NewTestAppWithConfig(cfg Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), historymemory.New(), mockClock, mockRandom, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		"가방", "방석", "석류", "류머티즘", "기차", "차표", "표범", "범인", "인형", "형제",
		"제비", "비누", "누나", "나무", "무지개", "개미", "미소", "소나무", "사과", "과자",
		"자동차", "차례", "예술", "술래", "래일", "일기", "기린", "린스", "스키", "키위",
	}
	return t.DictionaryService.LoadWords(words)
}
