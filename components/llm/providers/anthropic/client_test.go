package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bububa/trip-agents/components/llm"
)

func TestKindFromType(t *testing.T) {
	assert.ErrorIs(t, kindFromType("authentication_error"), llm.ErrAuthentication)
	assert.ErrorIs(t, kindFromType("permission_error"), llm.ErrAuthentication)
	assert.ErrorIs(t, kindFromType("rate_limit_error"), llm.ErrQuota)
	assert.ErrorIs(t, kindFromType("overloaded_error"), llm.ErrUnavailable)
	assert.ErrorIs(t, kindFromType("invalid_request_error"), llm.ErrInvalidRequest)
	assert.ErrorIs(t, kindFromType("something_new"), llm.ErrRequest)
}

func TestNewDefaults(t *testing.T) {
	clt := New("sk-ant-test")
	assert.Equal(t, llm.ProviderAnthropic, clt.Provider())
	assert.Equal(t, "claude-3-7-sonnet-latest", clt.Model())
	assert.Equal(t, 4096, clt.MaxTokens())
}
