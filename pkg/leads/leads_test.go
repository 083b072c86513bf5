package leads

import (
	"errors"
	"net/url"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		message string
		want    string
		wantErr error
	}{
		{"无消息", "905348292352", "", "https://wa.me/905348292352", nil},
		{"空格转义", "905348292352", "book a VIP", "https://wa.me/905348292352?text=book%20a%20VIP", nil},
		{"换行转义", "905348292352", "a\nb", "https://wa.me/905348292352?text=a%0Ab", nil},
		{"号码清洗", "+90 534 829-2352", "hi", "https://wa.me/905348292352?text=hi", nil},
		{"缺少号码", " - ", "hi", "", ErrMissingPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Link(tt.phone, tt.message)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLink_RoundTripsUnicodeAndSymbols(t *testing.T) {
	msg := "Package: Gold & VIP\nPrice: 100$ ✨ حلبي"
	link, err := Link("905348292352", msg)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, msg, u.Query().Get("text"))
}

func TestMessages(t *testing.T) {
	c := Contact{Name: "Sara", Phone: "0999", ServiceType: "Design"}
	assert.Equal(t, "Hello, I would like to ask about a service:\nName: Sara\nPhone: 0999\nService: Design", c.Message(),
		"empty fields are omitted")

	b := Booking{PackageTitle: "Gold", PackagePrice: "$99", Name: "Omar", Phone: "0988", Notes: "ASAP"}
	assert.Contains(t, b.Message(), "Package: Gold\nPrice: $99\n")
	assert.Contains(t, b.Message(), "Notes: ASAP")

	s := NewService{Name: "Ali", Phone: "1", ServiceName: "Moving", Category: "Home", City: "Aleppo", Price: "50", Description: "Fast"}
	msg := s.Message()
	for _, want := range []string{"Service: Moving", "Category: Home", "City: Aleppo", "Starting price: 50", "Description: Fast"} {
		assert.Contains(t, msg, want)
	}

	assert.Equal(t, "I want to order the service: Logo Design", ServiceOrder("Logo Design"))
	assert.Contains(t, PortfolioOrder("Villa"), "Villa")
	assert.Contains(t, SimilarVideo("Promo"), "(Promo)")
	assert.Contains(t, VIPConsultation(), "VIP")
}

func TestDispatcher_OpensLink(t *testing.T) {
	var opened string
	d := NewDispatcher("905348292352", OpenerFunc(func(link string) error {
		opened = link
		return nil
	}))

	res, err := d.Send("hi")
	require.NoError(t, err)
	assert.True(t, res.Opened)
	assert.False(t, res.Copied)
	assert.Equal(t, "https://wa.me/905348292352?text=hi", opened)
}

func TestDispatcher_FallsBackToClipboard(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWriteAll = orig })

	d := NewDispatcher("905348292352", OpenerFunc(func(string) error { return errors.New("no browser") }))
	res, err := d.Send("hi")
	require.NoError(t, err)
	assert.False(t, res.Opened)
	assert.True(t, res.Copied)
	assert.Equal(t, res.Link, copied)

	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	_, err = NewDispatcher("905348292352", nil).Send("hi")
	assert.Error(t, err)
}

func TestDispatcher_MissingPhone(t *testing.T) {
	_, err := NewDispatcher("", nil).Send("hi")
	assert.ErrorIs(t, err, ErrMissingPhone)
}

func TestSystemOpener_CommandPerPlatform(t *testing.T) {
	var args []string
	orig := startCommand
	startCommand = func(cmd *exec.Cmd) error { args = cmd.Args; return nil }
	t.Cleanup(func() { startCommand = orig })

	tests := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			require.NoError(t, SystemOpener{GOOS: tt.goos}.Open("https://wa.me/1"))
			require.NotEmpty(t, args)
			assert.Equal(t, tt.want, args[0])
			assert.Equal(t, "https://wa.me/1", args[len(args)-1])
		})
	}
}
