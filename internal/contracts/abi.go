package contracts

const GladiatorArenaABI = `[
	{"type":"function","name":"getGladiator","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"tuple","components":[
		{"name":"name","type":"string"},
		{"name":"strength","type":"uint256"},
		{"name":"agility","type":"uint256"},
		{"name":"vitality","type":"uint256"},
		{"name":"intelligence","type":"uint256"},
		{"name":"defense","type":"uint256"},
		{"name":"experience","type":"uint256"},
		{"name":"level","type":"uint256"},
		{"name":"wins","type":"uint256"},
		{"name":"losses","type":"uint256"},
		{"name":"lastFight","type":"uint256"},
		{"name":"battleCry","type":"string"},
		{"name":"winStreak","type":"uint256"}
	]}]},
	{"type":"function","name":"isGladiator","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"totalEarnings","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getEarnings","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getRecentBattles","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[
		{"name":"winner","type":"address"},
		{"name":"loser","type":"address"},
		{"name":"timestamp","type":"uint256"},
		{"name":"epicMoment","type":"string"},
		{"name":"rarity","type":"uint8"}
	]}]},
	{"type":"function","name":"createGladiator","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"battleCry","type":"string"}],"outputs":[]},
	{"type":"function","name":"killGladiator","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"fight","stateMutability":"nonpayable","inputs":[{"name":"opponent","type":"address"}],"outputs":[]},
	{"type":"event","name":"BattleResult","anonymous":false,"inputs":[
		{"name":"winner","type":"address","indexed":true},
		{"name":"loser","type":"address","indexed":true},
		{"name":"epicMoment","type":"string","indexed":false},
		{"name":"reward","type":"uint256","indexed":false},
		{"name":"battleId","type":"uint256","indexed":false},
		{"name":"rarity","type":"uint8","indexed":false}
	]}
]`

const GonadTokenABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getFlexStatus","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"tuple","components":[
		{"name":"dailyFlexes","type":"uint256"},
		{"name":"memeCount","type":"uint256"}
	]}]},
	{"type":"function","name":"flexOnThem","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"postMeme","stateMutability":"nonpayable","inputs":[{"name":"meme","type":"string"}],"outputs":[]},
	{"type":"event","name":"MemePosted","anonymous":false,"inputs":[
		{"name":"sender","type":"address","indexed":true},
		{"name":"meme","type":"string","indexed":false}
	]},
	{"type":"event","name":"GigaChad","anonymous":false,"inputs":[
		{"name":"chad","type":"address","indexed":true},
		{"name":"power","type":"uint256","indexed":false}
	]}
]`

const GonadDistributorABI = `[
	{"type":"function","name":"getAirdropInfo","stateMutability":"view","inputs":[],"outputs":[
		{"name":"active","type":"bool"},
		{"name":"amount","type":"uint256"},
		{"name":"remaining","type":"uint256"},
		{"name":"claimed","type":"bool"}
	]},
	{"type":"function","name":"hasClaimedAirdrop","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"getPresaleInfo","stateMutability":"view","inputs":[],"outputs":[
		{"name":"active","type":"bool"},
		{"name":"totalClaimed","type":"uint256"},
		{"name":"remaining","type":"uint256"},
		{"name":"userClaimed","type":"uint256"},
		{"name":"userRemaining","type":"uint256"}
	]},
	{"type":"function","name":"presaleClaims","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"claimAirdrop","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"claimPresale","stateMutability":"payable","inputs":[{"name":"amount","type":"uint256"}],"outputs":[]}
]`
