// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import "vimsh.dev/vimsh/shellenv"

// RegisterAll binds every builtin in this package onto env, overlaying any
// PATH executable of the same name. Call once during shell startup,
// before the first RebuildCommands.
func RegisterAll(env *shellenv.Env) {
	env.BindBuiltin("cd", Cd)
	env.BindBuiltin("exit", Exit)
	env.BindBuiltin("jobs", Jobs)
	env.BindBuiltin("fg", Fg)
	env.BindBuiltin(">", Overwrite)
	env.BindBuiltin(">>", Append)
	env.BindBuiltin("alias", Alias)
	env.BindBuiltin("var", Var)
	env.BindBuiltin("evar", Evar)
	env.BindBuiltin("export", Export)
	env.BindBuiltin("unset", Unset)
	env.BindBuiltin("args", Args)
}
