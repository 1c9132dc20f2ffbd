// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package builderplugin

import (
	"net/rpc"

	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// BuilderRPC is builder.Builder under a local name, kept distinct so the
// plugin side can implement it without importing the host's parser wiring.
type BuilderRPC = builder.Builder

// Each Args/Reply pair below mirrors one builder.Builder method. Node
// handles (Command, Word, Redirect, ...) cross the wire as gob-encoded
// interface values whose concrete types the plugin registers with
// RegisterConcreteTypes; the host never inspects them past this boundary.

type wordArgs struct {
	Pos  token.SourcePos
	Frag builder.WordFragment
}
type wordReply struct{ Word builder.Word }

type redirectArgs struct {
	Pos  token.SourcePos
	Spec builder.RedirectSpec
}
type redirectReply struct{ Redirect builder.Redirect }

type simpleCommandArgs struct {
	Envs      []builder.EnvAssignment
	CmdWords  []builder.Word
	Redirects []builder.Redirect
}
type pipeableReply struct{ Command builder.PipeableCommand }

type bodyRedirectsArgs struct {
	Body      builder.CommandList
	Redirects []builder.Redirect
}
type compoundReply struct{ Compound builder.CompoundCommand }

type loopCommandArgs struct {
	Kind      builder.LoopKind
	GuardBody builder.GuardBodyPair
	Redirects []builder.Redirect
}

type ifCommandArgs struct {
	Conditionals []builder.GuardBodyPair
	ElseBranch   *builder.CommandList
	Redirects    []builder.Redirect
}

type forCommandArgs struct {
	VarName   string
	Words     *[]builder.Word
	Body      builder.CommandList
	Redirects []builder.Redirect
}

type caseCommandArgs struct {
	Word      builder.Word
	Arms      []builder.CaseArm
	Redirects []builder.Redirect
}

type functionDeclarationArgs struct {
	Name             string
	PostNameComments []string
	Body             builder.Command
}

type pipelineArgs struct {
	Bang  bool
	Elems []builder.PipelineElem
}
type listableReply struct{ Command builder.ListableCommand }

type andOrListArgs struct {
	First builder.ListableCommand
	Rest  []builder.AndOrNext
}
type commandListReply struct{ List builder.CommandList }

type completeCommandArgs struct {
	PreComments     []string
	List            builder.CommandList
	Sep             builder.SeparatorKind
	TrailingComment string
}
type commandReply struct{ Command builder.Command }

type commentsArgs struct{ Lines []string }

// builderRPCServer runs on the plugin side, dispatching net/rpc calls to
// the concrete builder.Builder the plugin author supplied.
type builderRPCServer struct {
	impl BuilderRPC
}

func (s *builderRPCServer) Word(args *wordArgs, reply *wordReply) error {
	w, err := s.impl.Word(args.Pos, args.Frag)
	reply.Word = w
	return err
}

func (s *builderRPCServer) Redirect(args *redirectArgs, reply *redirectReply) error {
	r, err := s.impl.Redirect(args.Pos, args.Spec)
	reply.Redirect = r
	return err
}

func (s *builderRPCServer) SimpleCommand(args *simpleCommandArgs, reply *pipeableReply) error {
	c, err := s.impl.SimpleCommand(args.Envs, args.CmdWords, args.Redirects)
	reply.Command = c
	return err
}

func (s *builderRPCServer) BraceGroup(args *bodyRedirectsArgs, reply *compoundReply) error {
	c, err := s.impl.BraceGroup(args.Body, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) Subshell(args *bodyRedirectsArgs, reply *compoundReply) error {
	c, err := s.impl.Subshell(args.Body, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) LoopCommand(args *loopCommandArgs, reply *compoundReply) error {
	c, err := s.impl.LoopCommand(args.Kind, args.GuardBody, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) IfCommand(args *ifCommandArgs, reply *compoundReply) error {
	c, err := s.impl.IfCommand(args.Conditionals, args.ElseBranch, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) ForCommand(args *forCommandArgs, reply *compoundReply) error {
	c, err := s.impl.ForCommand(args.VarName, args.Words, args.Body, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) CaseCommand(args *caseCommandArgs, reply *compoundReply) error {
	c, err := s.impl.CaseCommand(args.Word, args.Arms, args.Redirects)
	reply.Compound = c
	return err
}

func (s *builderRPCServer) CompoundCommandAsPipeable(args *compoundReply, reply *pipeableReply) error {
	c, err := s.impl.CompoundCommandAsPipeable(args.Compound)
	reply.Command = c
	return err
}

func (s *builderRPCServer) FunctionDeclaration(args *functionDeclarationArgs, reply *pipeableReply) error {
	c, err := s.impl.FunctionDeclaration(args.Name, args.PostNameComments, args.Body)
	reply.Command = c
	return err
}

func (s *builderRPCServer) Pipeline(args *pipelineArgs, reply *listableReply) error {
	c, err := s.impl.Pipeline(args.Bang, args.Elems)
	reply.Command = c
	return err
}

func (s *builderRPCServer) AndOrList(args *andOrListArgs, reply *commandListReply) error {
	c, err := s.impl.AndOrList(args.First, args.Rest)
	reply.List = c
	return err
}

func (s *builderRPCServer) CompleteCommand(args *completeCommandArgs, reply *commandReply) error {
	c, err := s.impl.CompleteCommand(args.PreComments, args.List, args.Sep, args.TrailingComment)
	reply.Command = c
	return err
}

func (s *builderRPCServer) Comments(args *commentsArgs, reply *commandReply) error {
	c, err := s.impl.Comments(args.Lines)
	reply.Command = c
	return err
}

// builderRPCClient runs on the host side, implementing builder.Builder by
// forwarding every call across the wire.
type builderRPCClient struct {
	client *rpc.Client
}

var _ builder.Builder = (*builderRPCClient)(nil)

func (c *builderRPCClient) Word(pos token.SourcePos, f builder.WordFragment) (builder.Word, error) {
	var reply wordReply
	err := c.client.Call("Plugin.Word", &wordArgs{Pos: pos, Frag: f}, &reply)
	return reply.Word, err
}

func (c *builderRPCClient) Redirect(pos token.SourcePos, spec builder.RedirectSpec) (builder.Redirect, error) {
	var reply redirectReply
	err := c.client.Call("Plugin.Redirect", &redirectArgs{Pos: pos, Spec: spec}, &reply)
	return reply.Redirect, err
}

func (c *builderRPCClient) SimpleCommand(envs []builder.EnvAssignment, cmdWords []builder.Word, redirects []builder.Redirect) (builder.PipeableCommand, error) {
	var reply pipeableReply
	err := c.client.Call("Plugin.SimpleCommand", &simpleCommandArgs{Envs: envs, CmdWords: cmdWords, Redirects: redirects}, &reply)
	return reply.Command, err
}

func (c *builderRPCClient) BraceGroup(body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.BraceGroup", &bodyRedirectsArgs{Body: body, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) Subshell(body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.Subshell", &bodyRedirectsArgs{Body: body, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) LoopCommand(kind builder.LoopKind, guardBody builder.GuardBodyPair, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.LoopCommand", &loopCommandArgs{Kind: kind, GuardBody: guardBody, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) IfCommand(conditionals []builder.GuardBodyPair, elseBranch *builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.IfCommand", &ifCommandArgs{Conditionals: conditionals, ElseBranch: elseBranch, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) ForCommand(varName string, words *[]builder.Word, body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.ForCommand", &forCommandArgs{VarName: varName, Words: words, Body: body, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) CaseCommand(word builder.Word, arms []builder.CaseArm, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	var reply compoundReply
	err := c.client.Call("Plugin.CaseCommand", &caseCommandArgs{Word: word, Arms: arms, Redirects: redirects}, &reply)
	return reply.Compound, err
}

func (c *builderRPCClient) CompoundCommandAsPipeable(cc builder.CompoundCommand) (builder.PipeableCommand, error) {
	var reply pipeableReply
	err := c.client.Call("Plugin.CompoundCommandAsPipeable", &compoundReply{Compound: cc}, &reply)
	return reply.Command, err
}

func (c *builderRPCClient) FunctionDeclaration(name string, postNameComments []string, body builder.Command) (builder.PipeableCommand, error) {
	var reply pipeableReply
	err := c.client.Call("Plugin.FunctionDeclaration", &functionDeclarationArgs{Name: name, PostNameComments: postNameComments, Body: body}, &reply)
	return reply.Command, err
}

func (c *builderRPCClient) Pipeline(bang bool, elems []builder.PipelineElem) (builder.ListableCommand, error) {
	var reply listableReply
	err := c.client.Call("Plugin.Pipeline", &pipelineArgs{Bang: bang, Elems: elems}, &reply)
	return reply.Command, err
}

func (c *builderRPCClient) AndOrList(first builder.ListableCommand, rest []builder.AndOrNext) (builder.CommandList, error) {
	var reply commandListReply
	err := c.client.Call("Plugin.AndOrList", &andOrListArgs{First: first, Rest: rest}, &reply)
	return reply.List, err
}

func (c *builderRPCClient) CompleteCommand(preComments []string, list builder.CommandList, sep builder.SeparatorKind, trailingComment string) (builder.Command, error) {
	var reply commandReply
	err := c.client.Call("Plugin.CompleteCommand", &completeCommandArgs{PreComments: preComments, List: list, Sep: sep, TrailingComment: trailingComment}, &reply)
	return reply.Command, err
}

func (c *builderRPCClient) Comments(lines []string) (builder.Command, error) {
	var reply commandReply
	err := c.client.Call("Plugin.Comments", &commentsArgs{Lines: lines}, &reply)
	return reply.Command, err
}
