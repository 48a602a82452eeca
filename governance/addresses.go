package governance

import (
	"errors"

	"github.com/scala-network/scala/types"
)

// NetworkType selects which address table applies
type NetworkType int

const (
	Mainnet NetworkType = iota
	Testnet
	Stagenet
	Fakechain
)

// AddressCodec parses account address strings. Address string encoding is
// owned by the wallet layer; the core only consumes parsed key pairs.
type AddressCodec interface {
	Parse(net NetworkType, s string) (types.Address, error)
}

var ErrNoCodec = errors.New("no address codec configured")

// addressesV1 is the legacy governance payout rotation. The table is
// consensus data: entries, order and duplicates must stay exactly as
// published.
var addressesV1 = []string{
	"SvjVucMW4PA968WJP7rXRr1fkRVch5q6rLnh86LkZCWFPJiDEB2vizX6VjMezJaKiCN2K1kVvAHDbUmiB1tPjZJP2hety4dnf",
	"SvjVucMW4PA968WJP7rXRr1fkRVch5q6rLnh86LkZCWFPJiDEB2vizX6VjMezJaKiCN2K1kVvAHDbUmiB1tPjZJP2hety4dnf",
	"Svkw5aecRCmgru6t4Jigi9KN3HrENz3VmFVtBmaGJhNVWmUGc6hv5P9Qhi6Uivns49BG1H6WBVWoY85Si8PdYcfN2umFos7KU",
	"Svkw5aecRCmgru6t4Jigi9KN3HrENz3VmFVtBmaGJhNVWmUGc6hv5P9Qhi6Uivns49BG1H6WBVWoY85Si8PdYcfN2umFos7KU",
	"SvkdzwcuUzy1p25pvipH5QB4usEGJ9aBB7ucPrg2fvoKQh8jW6wQnYYTdFsQ6Gg2uVPPLgWt1pzaKVa6zeTmfv3j2XLefxByh",
	"SvkdzwcuUzy1p25pvipH5QB4usEGJ9aBB7ucPrg2fvoKQh8jW6wQnYYTdFsQ6Gg2uVPPLgWt1pzaKVa6zeTmfv3j2XLefxByh",
	"SvjayKidE9SGRX2E5dJWdQbhVfq4nf4tQJkUQ5bBUdgALqiUewJfWQwbmptDEmKqeqc4tRb26duxe3483w2RZRXQ2MPKDzw3a",
	"SvkKGjieJuuMgxyCC3nXJUJDj2CuibeFRL6qan46zw8NCRMPyRtwehjjYG2qqekuUnCW5zmeu27fBLqn1xkQFRkc1wzscXzvo",
	"Svk7VUPASsbZhFErf8rEfuEEX94GWsSWKVS8GNAUDfH363EsSLZ58wd3rph8okcaFALthwMkQ4fWJBzYYjqA3Lk61McroQbno",
	"Svk7VUPASsbZhFErf8rEfuEEX94GWsSWKVS8GNAUDfH363EsSLZ58wd3rph8okcaFALthwMkQ4fWJBzYYjqA3Lk61McroQbno",
	"Svk7Uv5WsovHiooYMa9jtcSdgKJcBztLE5n8A8HSp7s8UXnMdVoNLBf2tKchEqW4Ma6wW27Rb2ntPQqrFZT26hhE25fenVvyp",
	"SvmCQeq1VL2GxLpQznvwF7eHCYd77j9V32fmVVzcfDUSJ4VU3sb5riBdCVYZmk3oVF4b6wqRhPbAbf5oWTC9EFUY16XcZ75cL",
	"SvkKRajEKEnhEUWFXMrHFdRxE7vmYJaifTRoGrNyDPksZqxWGm8NeJi6UaFXDbXVaGEVAiVYPHmsyaFNAcq5qGLR1BzriKyiM",
	"SvkL8FpayF6R4RucZC4L1wcuVFZwPAf52dECSrr2LiViGVGv3YVKnjz9rsfcxkVLJaTaB24JUico23bEjXtpkEMo1eyhRtk6Z",
	"SvjssTR8XNsRxGZeyFnXj9LvHD5c3EZM8XdquLZoBNjrKHcFN3KCzTR5L3yjTvoFCv9usqd9vFbkaiyqyJFFQw9g2KLoCyL6B",
	"SvkWYULscDkRuWZwuVAywHjpFMqVA3beZQPPVDBUiE6YUFwVL4LqTY348Yazdwwa6VbhhBLKTW295T5bPbizzF9837VDwp4bU",
}

// V1RewardAddress selects the legacy payout address for a height. A height
// divisible by 16 selects the final entry, not the first; the wrap is part
// of consensus.
func V1RewardAddress(height uint64) string {
	mod := height % 16
	if mod == 0 {
		return addressesV1[15]
	}
	return addressesV1[mod-1]
}

var mainnetAddressesV2 = []string{}

var testnetAddressesV2 = []string{
	"Tsz4ksnHAQxP7pjCxyZ2fmh4yc7QFSS5zftXAWqXpEhtGTtQt3qvLMdE1Db1nvvLVN2d5npSMxWd3Poom1G6VDey7QGUeGnde5",
	"Tsz54FHBmwwdoiVuAcigRbELu6W3paXxWU9g8hccp9zDZLfBFRVLnhqDComgXoHGtui88qMCWtAsgRRTsnGwzEYW5TfpgJ9GAL",
	"Tsz52AyB4AmhzN6x8hjM6bSGiSbVUjXCL9eA9gJ62ppf7aNnLKw7UuK4CEzintMuge8ZVMaREXSCxjNt9dqjUDkN3yCXQ8LPaA",
	"Tsz4xjr6EA78LMR3qzweAEgwW7Yw4xUjvQU533Ps4jUnGXQLzqqMvi68BzvZ9z3kKa2iRUxP81E3M3sR8F8pPzbt9LAbiG7RYy",
	"Tsz4k8ofKTpWhz8pUhBTxUWS8YpxzM2eWeEvbDMR7yYfEiVvwZ3vz8K939vZLG1DhnWJ8LXqFs3qkbsP5vyQJD2f7Ae6TZnEXQ",
	"Tsz4yAo5vynhHE44YSMLrHX3kTjzvYuHcCNNwbhc3CmGYgiWN76vXLibxy62sTJfaUH3ZmchtcpAQLb9VzB5YWo84jnYDyasWx",
	"Tsz4omXdhN8fjoSmMSoSBPLzTW5CduzX3X7LomQPuM9CbxNeZ4YsufLHbm4e4wBtHoPwjDLysm8p9AKMqT7FJ7tv7aQjuU4V6Q",
	"Tsz53NS37gf1ZwGy1B3F1WKwezQbZBGwuExhRaBxs4z2KYk5fK1dr8LbN3QwZEAWeLHv9B6ivZfGh6FEdx2UMsmRASKjG7e4LX",
	"Tsz53E4u7HeKwVTTEYRuJihgDtNzGp8YSNBvFY5NUTj8eDMQ6iNdktzBTo1p8qDSWhcUt9WSZgAgTbLNLyDZZTPt4WngGmesby",
	"Tsz4tDBp2MtBGhAQW4KXvYHYPwD2PskRp3cjN9ch723NSAoqRjQ2PskUsKeoKY3RMcMkr94qQYcf9JbESVULNKSy1WUrVyvgRq",
	"Tsz514QzPKsj96oseEgVbNZfXWz1yuBtq2vko45X5xM8Ygb9wJNEM4KHq4uBEcZGRMYRaRufNu4LdXnQtcqoxxfA2XoswQHVVD",
	"Tsz54UiDc48CN9KNz8ULQYN36GXT8pQ7nFME3MeHha5e1MwrQ3DBSi2APXv7gQgZzS58aNTv5mKwjQQTJiDFvgag5czEGnXSg9",
	"Tsz5C1N2dwNF8vS6wzEWM2jktkwN2C5KPVu3j4xTyNcxYoZzz2DTcTz1nRLASsSEZ3eeme1USFarMTpzynzsgr4q8Pee9cYk82",
	"Tsz5ASRjtcf3551DxC77RGKgbHT4xyMPBBrqnmZESVac7agZ169WSndX5zPZsbNTrSBMv4etujgsn1jEvZUnwmuw5UH5ys2KFK",
	"Tsz59wAhTbXVV46A7yeXkr8pLcQRfUT17BpY15iWJVKPdMHi86qRXBhQFeUYd8YSMybcBmjSJmmHJ8goXcumZQMM9yGhck1pta",
	"Tsz4uCSMeLyTXdsRtwyFGq6oEuAEpQr4VGVzNZYbmsKUcXUTyhSshRpVYiDukfJRKvDQJ43foLEShfjTwYNJVKxw56yAsvVQgu",
	"Tsz4rgd26kBLZdx2C4qcnb88TJGhSVJMJD7EHQC1TJh4Tdjp1c6eA7hfCS8EDQdGT4HNsHSJdXqmmjBCMmWDA24W4ToG1fB4hT",
	"Tsz4pv3mna6AF3e4gYAumvjhpKbqXWRMYJyTvjfwnU7vS9VncxKuSpoP2JQrB4aAtEgSpRifXhzLAVJ5ck9UVz3A2pi3d6Gb6D",
	"Tsz4u4W5mwqb4AtQ7r7Dy945BinjHm5iSdCqGpsMoMQ8YobGKhRH1pAdiiULqVAmEZQry2orioA1jLtsb4hqs5pg7dbsP2KskY",
	"Tsz4kVWhmyKL3zd5Xou2j3Skyb23gh7VAQRgaTqijEXpUebMTtbYNx95SGApCS5Zs1hKiyyrdKZx5WQpx7yDE6eH4ME6HPZWDt",
	"Tsz4t1gJLpvKXMKCZvK8Cc2neKb7tniubV4Ytnv6WT6VJtWCtucicBbQjus7JURViyfNCgUhXUnnEE6H4eZrugs8A8Kk99KFVd",
	"Tsz4vpMv4TuSW3whtfHo9HdHMAxTAv7quhp8qqzcGKXuNXAZiNThephWsL14ce8Q9RMJA8FZg2xCq8pskRPz6gWrAgYvCF9EAq",
	"Tsz4xFWGV8DGBXahWmnuGnPccAuz13oTdLtjxSxZ9s1oYEhHi6iumiDVvg3E3GvHjE6ipFJFbQuwXVxTrfAgPGWf5YbKYnmePx",
	"Tsz4x4Vd1hSLGk7aqywaZaazyvsRDiQUCMj14WAbDmEZ3NZLTQpTiHK75YQkETtGkYRg2ZxfvEBfMRsLasCf4cmd1HhQYtm6Qd",
	"Tsz4tNtPoER4VrbcJd14GcQcfuoBdRwovL9xgM1J7CpZhiuyPjoE35eDN2TEGpLS5VURhrtVrmuraC4m11by6F5V5sqyTJKXsk",
	"Tsz554Psk2aVwrXtUgRFDxJpPZi2EBukBgzfiDJPShNq2vdhWnGjotmeH948Fd9YL1hYtLEHD1JMu9xexicRqJ695rhiVAUigQ",
	"Tsz55cLju1Z9o1JuB1urUZ5k3cVcvhkHK1sJkRazKpTcdiAazjsNJiRZiSuyJ4Jo8UUjgi5WAc4eY265TmJ1bdms5ewq6fzU68",
	"Tsz4nucXCkaL5DW7GY8ersPxNQWvxtqYjWzPNsWVUuTPfxm12ip4sFAL3cf6ctNvSa1gRaBoUVaWjHcMoK9HiStZ76N8coeHeG",
	"Tsz58e325DVNsY2vZ3X7y7asxeBXeuSE9112fsfBMdHCNEEPYPuZVAPbWAAMGatRuhCqsrrgJwwRGX6uFHM3fiz61RZRpNtgGD",
	"Tsz4qauJvUDLNFUXLpXcAcYiqgsqkaVyQNfCMZTthN26DhREJq7Cgo4URteCZ1oLBGEFSKVFrrAEjdUhaVT4uRqs5kKvANSAoY",
	"Tsz4oBSMpmiZ5wZ3VQfpyuU2CMCidkNcG9YE9KnL4X6HWMz6x2RkajcKTTEu6JaZ4kdDZ4Xnbz4pdKzjKBAnKvWF8PtS8tkNqr",
	"Tsz4uyPv4MA6uLVekkBXWTQjZjgAQRauG6qmsTz76m34iGbrtjv3D5u8V7cJDjXL713BLCwd2maL3X2bcaXRmiRR3e24ko44Ni",
	"Tsz5AJhtGhdPMasefYx6LHRTgZWCPzSz6a3fUDkCHb9T3HX9AkNcZPZcshHEtLVA3fWjgYFc44hb9eJqyC2bY6P19B4hkLwW8Y",
	"Tsz5AYGtLpHL9UfaeJ9H6Gb4ETbRDJi2GADSqsDrv5jBJFo8ET2WkcXVLvh9jamcTTZJQaeHhPfRk7vCjkKtVdVK7Fjx1qFRRW",
	"Tsz5DrBvZa8SATZzTnZRDdMsnX7PUBEQmXwZCvfjkFckfx1iSF7iGo7cd4y51UDBdCBwYcAFAYq7NK8SJLHyrYcs2MYp9aXD7Z",
}

var stagenetAddressesV2 = []string{
	"StS1EMPcKqxbJPoVYL8p7RN1tMcbGB9jAVewbpYB37gJ3qjtQKFcRabXGg3QX7jCTiZDVgGhsXaVm9TVb77Ptme2ANxBtzD1Rg",
	"StS1JCNsSYSA77L7TZ2Tb5b5aKdydTjQ2Rx9hGz52ri42ZxFN27kWeBg8UNRgmn33jYT9CJF9gEQcNfcLtKpd5nM635bNZ3uCr",
	"StS1fHLrX73CT5wyfQa21mJPzRiGcn8FW8P8q53WZzDYZf9cwbsBESDace15nKeHoQJ5U8sm48ncxXGAzyfL4Rdv3LNCpyrK6y",
}

// AddressesV2 returns the rotating governance set for a network
func AddressesV2(net NetworkType) []string {
	switch net {
	case Testnet:
		return testnetAddressesV2
	case Stagenet:
		return stagenetAddressesV2
	default:
		return mainnetAddressesV2
	}
}
