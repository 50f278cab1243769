package telnet

// handleNegotiation applies the loop-prevention and pending-state rules to
// a single received WILL/WONT/DO/DONT and returns the events it produces
// (an optional reply to send, plus a Negotiation event if a state actually
// changed).
//
// WILL/WONT describe the peer's own side, so they only ever move
// RemoteState; DO/DONT are the peer asking about our side, so they only
// ever move LocalState. This split is what makes the "don't re-ack" rule
// simple: a verb can only possibly be a no-op against the state it
// addresses.
func (p *Parser) handleNegotiation(verb, opt byte) []TelnetEvent {
	switch verb {
	case CmdWILL:
		return p.handleWill(opt)
	case CmdWONT:
		return p.handleWont(opt)
	case CmdDO:
		return p.handleDo(opt)
	case CmdDONT:
		return p.handleDont(opt)
	default:
		return nil
	}
}

func negotiationEvent(verb, opt byte) TelnetEvent {
	return TelnetEvent{Kind: TelnetEventNegotiation, Verb: verb, Option: opt}
}

func (p *Parser) handleWill(opt byte) []TelnetEvent {
	entry := p.Options.Get(opt)
	switch entry.RemoteState {
	case Enabled:
		// Already on; RFC 1143's central rule: never re-ack.
		return nil
	case PendingOn:
		entry.RemoteState = Enabled
		p.Options.Set(opt, entry)
		return []TelnetEvent{negotiationEvent(CmdWILL, opt)}
	default: // Disabled, PendingOff
		if entry.Remote {
			entry.RemoteState = Enabled
			p.Options.Set(opt, entry)
			return []TelnetEvent{
				dataSend([]byte{CmdIAC, CmdDO, opt}),
				negotiationEvent(CmdWILL, opt),
			}
		}
		return []TelnetEvent{dataSend([]byte{CmdIAC, CmdDONT, opt})}
	}
}

func (p *Parser) handleWont(opt byte) []TelnetEvent {
	entry := p.Options.Get(opt)
	prev := entry.RemoteState
	switch prev {
	case Disabled:
		return nil
	case PendingOff:
		entry.RemoteState = Disabled
		p.Options.Set(opt, entry)
		return []TelnetEvent{negotiationEvent(CmdWONT, opt)}
	default: // Enabled, PendingOn
		entry.RemoteState = Disabled
		p.Options.Set(opt, entry)
		events := []TelnetEvent{negotiationEvent(CmdWONT, opt)}
		if prev == Enabled {
			// Peer revoked unilaterally; ack so it knows we agree.
			events = append([]TelnetEvent{dataSend([]byte{CmdIAC, CmdDONT, opt})}, events...)
		}
		return events
	}
}

func (p *Parser) handleDo(opt byte) []TelnetEvent {
	entry := p.Options.Get(opt)
	switch entry.LocalState {
	case Enabled:
		return nil
	case PendingOn:
		entry.LocalState = Enabled
		p.Options.Set(opt, entry)
		return []TelnetEvent{negotiationEvent(CmdDO, opt)}
	default: // Disabled, PendingOff
		if entry.Local {
			entry.LocalState = Enabled
			p.Options.Set(opt, entry)
			return []TelnetEvent{
				dataSend([]byte{CmdIAC, CmdWILL, opt}),
				negotiationEvent(CmdDO, opt),
			}
		}
		return []TelnetEvent{dataSend([]byte{CmdIAC, CmdWONT, opt})}
	}
}

func (p *Parser) handleDont(opt byte) []TelnetEvent {
	entry := p.Options.Get(opt)
	prev := entry.LocalState
	switch prev {
	case Disabled:
		return nil
	case PendingOff:
		entry.LocalState = Disabled
		p.Options.Set(opt, entry)
		return []TelnetEvent{negotiationEvent(CmdDONT, opt)}
	default: // Enabled, PendingOn
		entry.LocalState = Disabled
		p.Options.Set(opt, entry)
		events := []TelnetEvent{negotiationEvent(CmdDONT, opt)}
		if prev == Enabled {
			events = append([]TelnetEvent{dataSend([]byte{CmdIAC, CmdWONT, opt})}, events...)
		}
		return events
	}
}
