package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/vibeshell/storage"
)

// ErrScriptTimeout is returned when a script runs past the view's limit.
var ErrScriptTimeout = errors.New("script timed out")

// pageBinding is what the script runner needs from the view it runs in.
type pageBinding interface {
	pageURL() string
	pageTitle() string
	setPageTitle(title string)
}

// scriptRunner executes page scripts in one goja runtime per loaded page.
type scriptRunner struct {
	vm      *goja.Runtime
	timeout time.Duration
	log     *slog.Logger
}

func newScriptRunner(page pageBinding, store storage.Provider, timeout time.Duration, log *slog.Logger) *scriptRunner {
	vm := goja.New()
	r := &scriptRunner{vm: vm, timeout: timeout, log: log}

	window := vm.GlobalObject()
	_ = window.Set("window", window)
	_ = window.Set("self", window)

	document := vm.NewObject()
	_ = document.DefineAccessorProperty("title",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(page.pageTitle())
		}),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			page.setPageTitle(collapseSpace(call.Argument(0).String()))
			return goja.Undefined()
		}),
		goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = document.DefineAccessorProperty("URL",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(page.pageURL())
		}),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = window.Set("document", document)

	location := vm.NewObject()
	_ = location.DefineAccessorProperty("href",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(page.pageURL())
		}),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = window.Set("location", location)

	console := vm.NewObject()
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		_ = console.Set(level, r.consoleFunc(level))
	}
	_ = window.Set("console", console)

	if store != nil {
		_ = window.Set("localStorage", newLocalStorage(vm, store, originOf(page.pageURL())))
	}
	return r
}

func (r *scriptRunner) consoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		r.log.Debug("console."+level, "message", strings.Join(parts, " "))
		return goja.Undefined()
	}
}

// run evaluates code, named src in stack traces, under the runner's timeout.
func (r *scriptRunner) run(src, code string) (result goja.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script panic in %s: %v", src, p)
		}
	}()

	if r.timeout > 0 {
		timer := time.AfterFunc(r.timeout, func() {
			r.vm.Interrupt(ErrScriptTimeout)
		})
		defer func() {
			timer.Stop()
			r.vm.ClearInterrupt()
		}()
	}

	program, err := goja.Compile(src, code, false)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", src, err)
	}
	result, err = r.vm.RunProgram(program)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("run %s: %w", src, ErrScriptTimeout)
		}
		return nil, fmt.Errorf("run %s: %w", src, err)
	}
	return result, nil
}

// originOf returns scheme://host for http(s) pages and "null" otherwise.
func originOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "null"
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// newLocalStorage binds a Web Storage object for origin to store. Items of
// one origin live under a single key as a JSON object.
func newLocalStorage(vm *goja.Runtime, store storage.Provider, origin string) *goja.Object {
	key := "localstorage/" + origin
	ctx := context.Background()

	load := func() map[string]string {
		items := map[string]string{}
		if _, err := store.Get(ctx, key, &items); err != nil {
			panic(vm.NewGoError(err))
		}
		return items
	}
	save := func(items map[string]string) {
		var err error
		if len(items) == 0 {
			err = store.Remove(ctx, key)
		} else {
			err = store.Set(ctx, key, items)
		}
		if err != nil {
			panic(vm.NewGoError(err))
		}
	}

	obj := vm.NewObject()
	_ = obj.Set("getItem", func(call goja.FunctionCall) goja.Value {
		if v, ok := load()[call.Argument(0).String()]; ok {
			return vm.ToValue(v)
		}
		return goja.Null()
	})
	_ = obj.Set("setItem", func(call goja.FunctionCall) goja.Value {
		items := load()
		items[call.Argument(0).String()] = call.Argument(1).String()
		save(items)
		return goja.Undefined()
	})
	_ = obj.Set("removeItem", func(call goja.FunctionCall) goja.Value {
		items := load()
		delete(items, call.Argument(0).String())
		save(items)
		return goja.Undefined()
	})
	_ = obj.Set("clear", func(goja.FunctionCall) goja.Value {
		save(nil)
		return goja.Undefined()
	})
	_ = obj.DefineAccessorProperty("length",
		vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(len(load()))
		}),
		nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}
