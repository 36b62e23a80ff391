// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractUniqueName(t *testing.T) {
	name, ok := ExtractUniqueName("https://www.douban.com/people/some-name/")
	assert.True(t, ok)
	assert.Equal(t, "some-name", name)

	_, ok = ExtractUniqueName("https://www.douban.com/group/foo/")
	assert.False(t, ok)
}

func TestExtractDoubanID(t *testing.T) {
	id, ok := ExtractDoubanID("https://www.douban.com/status/1234567890/")
	assert.True(t, ok)
	assert.Equal(t, int64(1234567890), id)

	_, ok = ExtractDoubanID("https://www.douban.com/status/")
	assert.False(t, ok)
}

// TestParseCount_ChineseSuffixAndTrailingText covers §4.3 "Counts that
// parse with extra text keep only the leading integer" and the 万/亿
// magnitude suffixes.
func TestParseCount_ChineseSuffixAndTrailingText(t *testing.T) {
	assert.Equal(t, int64(128), ParseCount("128 人关注"))
	assert.Equal(t, int64(12000), ParseCount("1.2万次播放"))
	assert.Equal(t, int64(100000000), ParseCount("1亿"))
	assert.Equal(t, int64(0), ParseCount("not a number"))
	assert.Equal(t, int64(0), ParseCount(""))
}
