package cmd

import (
	"flag"
	"testing"

	"github.com/etnz/longshort"
	"github.com/etnz/longshort/date"
	"github.com/posener/complete/v2/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFlag(t *testing.T) {
	var m moneyFlag
	assert.Equal(t, "", m.String())
	require.NoError(t, m.Set("12,50"))
	assert.True(t, m.set)
	assert.Equal(t, "12.50", m.String())
	assert.Error(t, (&moneyFlag{}).Set("abc"))
}

func TestQuantityFlag(t *testing.T) {
	var q quantityFlag
	assert.Equal(t, "", q.String())
	require.NoError(t, q.Set("300"))
	assert.Equal(t, longshort.Quantity(300), q.value)
	assert.Equal(t, "300", q.String())
	assert.Error(t, (&quantityFlag{}).Set("x"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"Ana", "Davi"}, splitList(" Ana, ,Davi "))
}

func TestFilterFlags(t *testing.T) {
	ff := filterFlags{status: "closed", advisors: "Ana", clients: "Bruno,Carla", month: "2025-04"}
	f, err := ff.filter()
	require.NoError(t, err)
	assert.Equal(t, longshort.ClosedOnly, f.Status)
	assert.Equal(t, []string{"Ana"}, f.Advisors)
	assert.Equal(t, []string{"Bruno", "Carla"}, f.Clients)
	assert.True(t, f.Closing.Contains(date.New(2025, 4, 30)))
	assert.False(t, f.Closing.Contains(date.New(2025, 5, 1)))

	_, err = (&filterFlags{status: "pending"}).filter()
	assert.Error(t, err)
	_, err = (&filterFlags{month: "april"}).filter()
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	top := flag.NewFlagSet("lsdesk", flag.ContinueOnError)
	top.String("config", "lsdesk.toml", "")
	top.Bool("v", false, "")

	c := Completion(top)
	assert.Equal(t, predict.Nothing, c.Flags["v"])
	for _, name := range []string{"add", "close", "positions", "export", "serve", "watch", "help"} {
		assert.Contains(t, c.Sub, name)
	}
	assert.Contains(t, c.Sub["add"].Flags, "symbol")
	assert.Contains(t, c.Sub["close"].Flags, "ref")
	assert.ElementsMatch(t, []string{"md", "csv", "xlsx", "pdf"}, c.Sub["export"].Flags["format"].Predict(""))
}
