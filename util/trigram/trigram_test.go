package trigram_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/dircloud/util/trigram"
)

func TestComputeTrigrams(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"ab", []string{}},
		{"cat", []string{"cat"}},
		{"/usr", []string{"/us", "usr"}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := trigram.ComputeTrigrams(c.in)
			require.Equal(t, c.want, got)
		})
	}
}

func TestSignatureComparisons(t *testing.T) {
	t.Run("substring is contained", func(t *testing.T) {
		s1 := trigram.NewSignature(32)
		s1.AddString("/usr/share/doc")
		s2 := trigram.NewSignature(32)
		s2.AddString("share")
		require.True(t, s1.Contains(s2))
	})
	t.Run("short query matches everything", func(t *testing.T) {
		s1 := trigram.NewSignature(32)
		s1.AddString("/usr")
		s2 := trigram.NewSignature(32)
		s2.AddString("us")
		require.True(t, s2.Empty())
		require.True(t, s1.Contains(s2))
	})
	t.Run("union covers both texts", func(t *testing.T) {
		s1 := trigram.NewSignature(128)
		s1.AddString("/var/log")
		s2 := trigram.NewSignature(128)
		s2.AddString("/home/user")
		q := trigram.NewSignature(128)
		q.AddString("user")
		require.False(t, s1.Contains(q))
		s1.Add(s2)
		require.True(t, s1.Contains(q))
	})
}
