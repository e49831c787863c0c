package validators

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPhoneValid(t *testing.T) {
	valid := []string{"0412345678", "+61 412 345 678", "(02) 9876-5432"}
	invalid := []string{"", "12345", "call me", "+61412345678901234"}

	for _, p := range valid {
		assert.True(t, IsPhoneValid(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsPhoneValid(p), p)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+61412345678", NormalizePhone(" +61 412-345-678 "))
}

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	assert.False(t, IsEmailDomainValid("no-at-sign"))
	assert.False(t, IsEmailDomainValid("trailing@"))
}

type fakeResolver struct {
	mx    map[string][]*net.MX
	hosts map[string][]string
}

func (r fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := r.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (r fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if h, ok := r.hosts[host]; ok {
		return h, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainChecker(t *testing.T) {
	v := NewEmailDomainChecker(fakeResolver{
		mx:    map[string][]*net.MX{"fadefactory.com.au": {{Host: "mx.fadefactory.com.au.", Pref: 10}}},
		hosts: map[string][]string{"barbers.example": {"203.0.113.7"}},
	})

	assert.True(t, v.Valid(context.Background(), "owner@fadefactory.com.au"))
	assert.True(t, v.Valid(context.Background(), "owner@barbers.example"))
	assert.False(t, v.Valid(context.Background(), "owner@nowhere.invalid"))
	assert.False(t, v.Valid(context.Background(), "not-an-email"))
	assert.False(t, v.Valid(context.Background(), "owner@"))
}
