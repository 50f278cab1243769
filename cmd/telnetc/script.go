package main

import (
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/telnetkit/telnetkit/telnet"
)

// scriptEngine is the optional Lua hook a telnetc session can run server
// lines through: a namespace table of Go funcs plus named hook globals
// the script defines, reduced to the two hooks a protocol demo client
// needs, transforming/suppressing incoming lines and sending lines of
// its own.
type scriptEngine struct {
	L *lua.LState
}

// newScriptEngine loads path (if non-empty) into a fresh Lua state,
// registering telnetc.send so scripts can inject lines to the server.
func newScriptEngine(path string, writer *telnet.SessionWriter) (*scriptEngine, error) {
	e := &scriptEngine{L: lua.NewState()}

	tbl := e.L.NewTable()
	e.L.SetGlobal("telnetc", tbl)
	e.L.SetField(tbl, "send", e.L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		if writer != nil {
			_ = writer.Write(line + "\r\n")
		}
		return 0
	}))

	if path == "" {
		return e, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		e.L.Close()
		return nil, err
	}
	if err := e.L.DoString(string(content)); err != nil {
		e.L.Close()
		return nil, err
	}
	return e, nil
}

// OnLine runs the script's on_line(text) hook, if defined, returning the
// (possibly rewritten) line and whether it should still be displayed.
// Lines are passed through unmodified when no hook is defined or the
// hook errors.
func (e *scriptEngine) OnLine(text string) (string, bool) {
	fn := e.L.GetGlobal("on_line")
	if fn == lua.LNil {
		return text, true
	}

	if err := e.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(text)); err != nil {
		return text, true
	}

	ret := e.L.Get(-1)
	e.L.Pop(1)

	if ret == lua.LNil {
		return "", false
	}
	return ret.String(), true
}

func (e *scriptEngine) Close() {
	e.L.Close()
}
