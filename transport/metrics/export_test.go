package metrics

func Update(p *TCPInfoProvider) error {
	return p.update()
}
