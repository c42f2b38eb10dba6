/*
Package compiler translates stack machine programs into Hack assembly.

Process of compilation

Source Text ->
	parse ->
VM Commands (ir) ->
	back ->
Unit Assembly ->
	link ->
Program Assembly

For verification the program assembly can be carried further:

Program Assembly ->
	asm ->
Machine Words ->
	cpu ->
Memory State
*/
package compiler
