package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"burgerstack/internal/auth"
	"burgerstack/internal/burger"
	"burgerstack/internal/motion"
	"burgerstack/internal/notify"
)

func (a *App) registerCommands() {
	a.reg.Register("add", "add <"+joinTypes()+">", nil, a.cmdAdd)
	a.reg.Register("remove", "remove <id|index>", nil, a.cmdRemove)
	a.reg.Register("reset", "back to the bottom bun", nil, func([]string) error {
		a.Burger.Reset()
		a.log.Log("burger reset")
		return nil
	})
	a.reg.Register("list", "show layers and offsets", nil, func([]string) error {
		items := a.Burger.List()
		b := a.Current()
		if b == nil || b.Key != burger.Key(items) {
			for i, it := range items {
				a.log.Logf("%2d %-10s %s", i, it.Type, it.ID)
			}
			return nil
		}
		for _, line := range Describe(items, b) {
			a.log.Log(line)
		}
		return nil
	})
	a.reg.Register("roll", "roll the die", nil, func([]string) error {
		if !a.Dice.TryRoll() {
			return errors.New("dice: wait for the current roll")
		}
		a.log.Log("rolling...")
		return nil
	})

	shake := flag.NewFlagSet("shake", flag.ContinueOnError)
	x := shake.Float64("x", 2, "acceleration x (g)")
	y := shake.Float64("y", 1, "acceleration y (g)")
	z := shake.Float64("z", 1, "acceleration z (g)")
	a.reg.Register("shake", "shake [-x g] [-y g] [-z g]", shake, func([]string) error {
		r := motion.Reading{X: float32(*x), Y: float32(*y), Z: float32(*z)}
		a.log.Logf("accel %.2fg, intensity %.2f", r.Magnitude(), r.ShakeIntensity())
		a.Sensor.Push(r.X, r.Y, r.Z)
		return nil
	})

	a.registerCredentials("login", "login -email e -password p", a.signIn)
	a.registerCredentials("register", "register -email e -password p", a.signUp)
	a.reg.Register("logout", "sign out", nil, func([]string) error {
		if a.Auth.Current() == nil {
			return errors.New("not signed in")
		}
		a.async(func(ctx context.Context) {
			if err := a.Auth.SignOut(ctx); err != nil {
				a.log.Logf("logout: %v", err)
			}
			a.log.Log("signed out")
			a.status("")
		})
		return nil
	})
	a.reg.Register("order", "send the current burger as an order", nil, func([]string) error {
		id := strings.ToUpper(uuid.NewString()[:8])
		if _, err := a.Notify.Schedule(notify.OrderCreated(id)); err != nil {
			return err
		}
		a.log.Logf("order %s sent (%d layers)", id, len(a.Burger.List()))
		return nil
	})
	a.reg.Register("help", "list commands", nil, func([]string) error {
		for _, line := range a.reg.Help() {
			a.log.Log(line)
		}
		return nil
	})
}

func (a *App) registerCredentials(name, usage string, run func(ctx context.Context, email, password string)) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	a.reg.Register(name, usage, fs, func([]string) error {
		if err := auth.Validate(*email, *password); err != nil {
			return err
		}
		e, p := *email, *password
		a.async(func(ctx context.Context) { run(ctx, e, p) })
		return nil
	})
}

func (a *App) cmdAdd(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: add <" + joinTypes() + ">")
	}
	t, err := burger.ParseType(args[0])
	if err != nil {
		return err
	}
	ing, ok := a.Burger.Add(t)
	if !ok {
		return errors.New("the burger already has a top bun")
	}
	a.log.Logf("added %s (%s)", ing.Type, ing.ID)
	return nil
}

func (a *App) cmdRemove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <id|index>")
	}
	id := args[0]
	if i, err := strconv.Atoi(id); err == nil {
		items := a.Burger.List()
		if i < 0 || i >= len(items) {
			return fmt.Errorf("no layer %d", i)
		}
		id = items[i].ID
	}
	if id == burger.BaseID {
		return errors.New("the bottom bun stays")
	}
	if !a.Burger.Remove(id) {
		return fmt.Errorf("no layer %s", id)
	}
	a.log.Logf("removed %s", id)
	return nil
}

func (a *App) signIn(ctx context.Context, email, password string) {
	s, err := a.Auth.SignIn(ctx, email, password)
	if err != nil {
		a.log.Logf("login: %v", err)
		return
	}
	a.log.Logf("signed in as %s", sessionName(s))
	a.status("signed in as " + sessionName(s))
	a.registerDevice(s.UserID)
}

func (a *App) signUp(ctx context.Context, email, password string) {
	s, err := a.Auth.SignUp(ctx, email, password)
	if err != nil {
		a.log.Logf("register: %v", err)
		return
	}
	if _, err := a.Notify.Schedule(notify.Welcome()); err != nil {
		a.log.Logf("notification: %v", err)
	}
	if s == nil {
		a.log.Log("account created: confirm your email, then login")
		return
	}
	a.log.Logf("account created, signed in as %s", sessionName(s))
	a.registerDevice(s.UserID)
}
