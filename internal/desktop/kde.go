package desktop

import (
	"context"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"
)

func init() {
	Register("kde", func(opts Options) (Binding, error) {
		return NewKDE()
	})
}

const (
	plasmaDest      = "org.kde.plasmashell"
	plasmaPath      = "/PlasmaShell"
	plasmaInterface = "org.kde.PlasmaShell"

	// plasmaFillScaled is the org.kde.image FillMode for a stretched image.
	plasmaFillScaled = 0
)

// caller makes a method call on a bus object.
type caller interface {
	Call(ctx context.Context, dest, path, method string, args ...any) error
}

type sessionBus struct {
	conn *dbus.Conn
}

func (b sessionBus) Call(ctx context.Context, dest, path, method string, args ...any) error {
	return b.conn.Object(dest, dbus.ObjectPath(path)).CallWithContext(ctx, method, 0, args...).Err
}

// KDE sets the background of every Plasma desktop by evaluating a
// shell script over the session bus.
type KDE struct {
	bus   caller
	close func() error
}

var _ Binding = (*KDE)(nil)

// NewKDE connects to the session bus.
func NewKDE() (*KDE, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &KDE{bus: sessionBus{conn: conn}, close: conn.Close}, nil
}

// Close releases the bus connection.
func (k *KDE) Close() error {
	if k.close == nil {
		return nil
	}
	err := k.close()
	k.close = nil
	return err
}

func (k *KDE) CommitBackground(imagePath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	err := k.bus.Call(ctx, plasmaDest, plasmaPath, plasmaInterface+".evaluateScript", plasmaScript(imagePath))
	if err != nil {
		return commitError(err)
	}
	return nil
}

func (k *KDE) NotifyShellRefresh() error {
	ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
	defer cancel()

	err := k.bus.Call(ctx, plasmaDest, plasmaPath, plasmaInterface+".refreshCurrentShell")
	if err != nil {
		return refreshError(err)
	}
	return nil
}

// plasmaScript returns a Plasma shell script applying the image to all
// desktops.
func plasmaScript(imagePath string) string {
	image := ""
	if imagePath != "" {
		image = fileURI(imagePath)
	}
	return fmt.Sprintf(`var all = desktops();
for (var i = 0; i < all.length; i++) {
  var d = all[i];
  d.wallpaperPlugin = "org.kde.image";
  d.currentConfigGroup = ["Wallpaper", "org.kde.image", "General"];
  d.writeConfig("Image", %s);
  d.writeConfig("FillMode", %d);
}`, strconv.Quote(image), plasmaFillScaled)
}
