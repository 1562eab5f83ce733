package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, c *Classifier, item string) Result {
	t.Helper()
	res, err := c.Classify(item, KindEmail)
	require.NoError(t, err)
	return res
}

func TestClassify_InvalidFormat(t *testing.T) {
	c := NewClassifier()
	for _, item := range []string{
		"",
		"plainaddress",
		"no-at-sign.com",
		"missing@tld",
		"two@@example.com",
		"spaces in@example.com",
		"trailing@example.com ",
	} {
		res := classify(t, c, item)
		assert.Equal(t, StatusInvalid, res.Status, "item %q", item)
		assert.Equal(t, ReasonInvalidFormat, res.Reason, "item %q", item)
	}
}

func TestClassify_ValidAndDeliverable(t *testing.T) {
	c := NewClassifier()
	res := classify(t, c, "jane.doe@example.com")
	assert.Equal(t, StatusValid, res.Status)
	assert.Equal(t, ReasonValid, res.Reason)
}

func TestClassify_DisposableProvider(t *testing.T) {
	c := NewClassifier()
	res := classify(t, c, "someone@mailinator.com")
	assert.Equal(t, StatusRisky, res.Status)
	assert.Equal(t, ReasonDisposable, res.Reason)
}

func TestClassify_RoleAccount(t *testing.T) {
	c := NewClassifier()
	for _, item := range []string{"admin@example.com", "INFO@example.com", "Support@example.com"} {
		res := classify(t, c, item)
		assert.Equal(t, StatusRisky, res.Status, "item %q", item)
		assert.Equal(t, ReasonRoleAccount, res.Reason, "item %q", item)
	}
}

func TestClassify_RoleMatchIsFullLocalPart(t *testing.T) {
	// "administrator" is not "admin"; prefix matching would be too eager.
	c := NewClassifier()
	res := classify(t, c, "administrator@example.com")
	assert.Equal(t, StatusValid, res.Status)
}

func TestClassify_DomainNotFound(t *testing.T) {
	c := NewClassifier(NewDomainCheck(func(domain string) (bool, error) {
		return domain != "no-such-domain.example", nil
	}))
	res := classify(t, c, "user@no-such-domain.example")
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, ReasonDomainNotFound, res.Reason)

	res = classify(t, c, "user@exists.example")
	assert.Equal(t, StatusValid, res.Status)
}

func TestClassify_DomainCaseInsensitive(t *testing.T) {
	c := NewClassifier()
	res := classify(t, c, "someone@MAILINATOR.COM")
	assert.Equal(t, StatusRisky, res.Status)
	assert.Equal(t, ReasonDisposable, res.Reason)
}

func TestClassify_StructuralFailureShortCircuitsChecks(t *testing.T) {
	called := false
	c := NewClassifier(NewDomainCheck(func(string) (bool, error) {
		called = true
		return true, nil
	}))
	res := classify(t, c, "not-an-email")
	assert.Equal(t, StatusInvalid, res.Status)
	assert.False(t, called, "reputation chain must not run for malformed input")
}

func TestClassify_ChainOrderFirstHitWins(t *testing.T) {
	// admin@mailinator.com is both disposable and role-based; the
	// disposable check runs first.
	c := NewClassifier()
	res := classify(t, c, "admin@mailinator.com")
	assert.Equal(t, ReasonDisposable, res.Reason)
}

func TestClassify_CheckErrorPropagates(t *testing.T) {
	boom := errors.New("resolver down")
	c := NewClassifier(NewDomainCheck(func(string) (bool, error) {
		return false, boom
	}))
	_, err := c.Classify("user@example.com", KindEmail)
	assert.ErrorIs(t, err, boom)
}

func TestClassify_Phone(t *testing.T) {
	c := NewClassifier()

	res, err := c.Classify("+14155552671", KindPhone)
	require.NoError(t, err)
	assert.Equal(t, StatusValid, res.Status)

	res, err = c.Classify("not-a-number", KindPhone)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, ReasonInvalidFormat, res.Reason)

	res, err = c.Classify("0123456789", KindPhone)
	require.NoError(t, err)
	assert.Equal(t, StatusInvalid, res.Status, "leading zero is not E.164")
}
