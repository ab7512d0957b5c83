package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMilestones(t *testing.T) {
	assert.Equal(t, []int{10, 25, 50, 100}, parseMilestones("10,25,50,100"))
	assert.Equal(t, []int{5, 20}, parseMilestones(" 5 , 20 "))
	assert.Empty(t, parseMilestones("abc,-1,0"))
	assert.Empty(t, parseMilestones(""))
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"http://a.com", "http://b.com"},
		parseOrigins("http://a.com, http://b.com"))
	assert.Empty(t, parseOrigins(""))
}
